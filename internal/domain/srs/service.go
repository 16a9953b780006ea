package srs

import (
	"errors"
	"time"

	"github.com/kioku-app/kioku/internal/domain"
)

// Common errors
var (
	ErrNilWord       = errors.New("word cannot be nil")
	ErrNilSentence   = errors.New("cloze sentence cannot be nil")
	ErrNilCharacter  = errors.New("character cannot be nil")
	ErrInvalidParams = errors.New("invalid scheduling parameters")
)

// Service defines the interface for scheduling operations across the
// three item kinds. Every method is a pure computation: the input record
// is never modified and the returned record carries the new state for the
// caller to persist.
type Service interface {
	// ReviewWord computes a word's new level, due date and counters for
	// a review outcome.
	ReviewWord(
		word *domain.Word,
		difficulty domain.ReviewDifficulty,
		now time.Time,
	) (*domain.Word, error)

	// ReviewCloze computes a cloze sentence's new level and counters for
	// a graded answer.
	ReviewCloze(
		sentence *domain.ClozeSentence,
		correct bool,
		now time.Time,
	) (*domain.ClozeSentence, error)

	// ReviewCharacter computes a character's new stage and sub-counters
	// for a dual-axis review. Locked characters are rejected with
	// domain.ErrCharacterLocked, burned ones with domain.ErrCharacterBurned.
	ReviewCharacter(
		character *domain.Character,
		meaningCorrect, readingCorrect bool,
		now time.Time,
	) (*domain.Character, error)

	// UnlockCharacter promotes a locked character to apprentice. This is
	// the only way out of the locked stage; answering never promotes past
	// it. Unlocking a character that is not locked is rejected with
	// domain.ErrCharacterNotLocked.
	UnlockCharacter(
		character *domain.Character,
		now time.Time,
	) (*domain.Character, error)

	// WordInterval exposes the level-to-delay table so the session layer
	// can show upcoming schedules without recomputing a review.
	WordInterval(level int) time.Duration
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom
// parameters. Returns an error if the parameters are inconsistent.
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidParams, err)
	}
	return &defaultService{
		params: params,
	}, nil
}

// ReviewWord implements the Service interface for word reviews.
func (s *defaultService) ReviewWord(
	word *domain.Word,
	difficulty domain.ReviewDifficulty,
	now time.Time,
) (*domain.Word, error) {
	if word == nil {
		return nil, ErrNilWord
	}

	if !difficulty.IsValid() {
		return nil, domain.ErrInvalidDifficulty
	}

	return calculateNextWord(word, difficulty, now, s.params), nil
}

// ReviewCloze implements the Service interface for cloze reviews.
func (s *defaultService) ReviewCloze(
	sentence *domain.ClozeSentence,
	correct bool,
	now time.Time,
) (*domain.ClozeSentence, error) {
	if sentence == nil {
		return nil, ErrNilSentence
	}

	return calculateNextCloze(sentence, correct, now, s.params), nil
}

// ReviewCharacter implements the Service interface for character reviews.
func (s *defaultService) ReviewCharacter(
	character *domain.Character,
	meaningCorrect, readingCorrect bool,
	now time.Time,
) (*domain.Character, error) {
	if character == nil {
		return nil, ErrNilCharacter
	}

	switch character.Stage {
	case domain.CharacterStageLocked:
		return nil, domain.ErrCharacterLocked
	case domain.CharacterStageBurned:
		return nil, domain.ErrCharacterBurned
	}

	return calculateNextCharacter(character, meaningCorrect, readingCorrect, now, s.params), nil
}

// UnlockCharacter implements the Service interface for the external
// unlock action.
func (s *defaultService) UnlockCharacter(
	character *domain.Character,
	now time.Time,
) (*domain.Character, error) {
	if character == nil {
		return nil, ErrNilCharacter
	}

	if character.Stage != domain.CharacterStageLocked {
		return nil, domain.ErrCharacterNotLocked
	}

	next := *character
	next.Stage = domain.CharacterStageApprentice
	unlocked := now
	next.UnlockedAt = &unlocked
	next.UpdatedAt = now

	return &next, nil
}

// WordInterval implements the Service interface.
func (s *defaultService) WordInterval(level int) time.Duration {
	return wordReviewInterval(level, s.params)
}
