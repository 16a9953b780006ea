// Package review coordinates a study session: it pulls due items from the
// stores, grades submitted answers and persists the scheduler's output, each
// submission inside its own transaction.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/domain"
)

// ClozeResult carries a graded cloze submission together with the
// rescheduled sentence.
type ClozeResult struct {
	Correct  bool                  `json:"correct"`
	Sentence *domain.ClozeSentence `json:"sentence"`
}

// CharacterResult carries a dual-axis character submission together with the
// rescheduled character.
type CharacterResult struct {
	MeaningCorrect bool              `json:"meaning_correct"`
	ReadingCorrect bool              `json:"reading_correct"`
	Character      *domain.Character `json:"character"`
}

// ReviewService provides methods for running spaced-repetition reviews over
// the three item ladders of a course.
type ReviewService interface {
	// DueWords returns up to limit words of a course that are due at the
	// given time, most overdue first.
	//
	// Returns ErrNoItemsDue when nothing is due.
	DueWords(ctx context.Context, courseID uuid.UUID, now time.Time, limit int) ([]*domain.Word, error)

	// DueClozes returns up to limit cloze sentences of a course that have
	// not yet reached the tree stage, lowest level first.
	//
	// Returns ErrNoItemsDue when nothing is reviewable.
	DueClozes(ctx context.Context, courseID uuid.UUID, limit int) ([]*domain.ClozeSentence, error)

	// DueCharacters returns up to limit characters of a course that are
	// neither locked nor burned, lowest stage first.
	//
	// Returns ErrNoItemsDue when nothing is reviewable.
	DueCharacters(ctx context.Context, courseID uuid.UUID, limit int) ([]*domain.Character, error)

	// SubmitWord records a word review outcome. The word is loaded,
	// rescheduled and saved in a single transaction, and the updated
	// record is returned.
	//
	// Returns ErrItemNotFound if the word does not exist.
	SubmitWord(ctx context.Context, wordID uuid.UUID, correct bool, now time.Time) (*domain.Word, error)

	// SubmitCloze grades a typed answer against the sentence's stored
	// answer (leading and trailing space and letter case are ignored) and
	// reschedules the sentence accordingly, in a single transaction.
	//
	// Returns ErrItemNotFound if the sentence does not exist.
	SubmitCloze(ctx context.Context, sentenceID uuid.UUID, answer string, now time.Time) (*ClozeResult, error)

	// SubmitCharacter grades the meaning and reading answers against the
	// character's stored meaning and pronunciation and reschedules the
	// character, in a single transaction. A character with no recorded
	// pronunciation is graded on meaning alone.
	//
	// Returns ErrItemNotFound if the character does not exist.
	// Returns domain.ErrCharacterLocked or domain.ErrCharacterBurned when
	// the character is not presentable.
	SubmitCharacter(ctx context.Context, characterID uuid.UUID, meaningAnswer, readingAnswer string, now time.Time) (*CharacterResult, error)

	// UnlockCharacter promotes a locked character to apprentice and stamps
	// the unlock time. This is the only way out of the locked stage.
	//
	// Returns ErrItemNotFound if the character does not exist.
	// Returns domain.ErrCharacterNotLocked if it is already unlocked.
	UnlockCharacter(ctx context.Context, characterID uuid.UUID, now time.Time) (*domain.Character, error)

	// MarkDifficult sets or clears a word's difficult flag without
	// touching its schedule.
	//
	// Returns ErrItemNotFound if the word does not exist.
	MarkDifficult(ctx context.Context, wordID uuid.UUID, difficult bool) (*domain.Word, error)
}

// Common error types for ReviewService
var (
	// ErrNoItemsDue indicates that the course has no items due for review.
	ErrNoItemsDue = errors.New("no items due for review")

	// ErrItemNotFound indicates that the requested item does not exist.
	ErrItemNotFound = errors.New("review item not found")
)

// ServiceError wraps errors from the review service with additional context.
// Consumers differentiate failures with errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_word")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError returns a ServiceError for the given operation.
func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
