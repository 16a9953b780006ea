package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/domain/srs"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/kioku-app/kioku/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db         *sqlx.DB
	words      store.WordStore
	clozes     store.ClozeSentenceStore
	characters store.CharacterStore
	srsService srs.Service
	logger     *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(
	db *sqlx.DB,
	words store.WordStore,
	clozes store.ClozeSentenceStore,
	characters store.CharacterStore,
	srsService srs.Service,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if words == nil {
		panic("words cannot be nil")
	}
	if clozes == nil {
		panic("clozes cannot be nil")
	}
	if characters == nil {
		panic("characters cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:         db,
		words:      words,
		clozes:     clozes,
		characters: characters,
		srsService: srsService,
		logger:     logger.With(slog.String("component", "review_service")),
	}
}

// DueWords implements ReviewService.DueWords.
func (s *reviewServiceImpl) DueWords(
	ctx context.Context,
	courseID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	words, err := s.words.ListDue(ctx, courseID, now, limit)
	if err != nil {
		log.Error("failed to list due words",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, newServiceError("due_words", "failed to list due words", err)
	}
	if len(words) == 0 {
		log.Debug("no words due", slog.String("course_id", courseID.String()))
		return nil, ErrNoItemsDue
	}

	log.Debug("retrieved due words",
		slog.String("course_id", courseID.String()),
		slog.Int("count", len(words)))
	return words, nil
}

// DueClozes implements ReviewService.DueClozes.
func (s *reviewServiceImpl) DueClozes(
	ctx context.Context,
	courseID uuid.UUID,
	limit int,
) ([]*domain.ClozeSentence, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sentences, err := s.clozes.ListReviewable(ctx, courseID, limit)
	if err != nil {
		log.Error("failed to list reviewable cloze sentences",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, newServiceError("due_clozes", "failed to list reviewable cloze sentences", err)
	}
	if len(sentences) == 0 {
		log.Debug("no cloze sentences reviewable", slog.String("course_id", courseID.String()))
		return nil, ErrNoItemsDue
	}

	return sentences, nil
}

// DueCharacters implements ReviewService.DueCharacters.
func (s *reviewServiceImpl) DueCharacters(
	ctx context.Context,
	courseID uuid.UUID,
	limit int,
) ([]*domain.Character, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	characters, err := s.characters.ListReviewable(ctx, courseID, limit)
	if err != nil {
		log.Error("failed to list reviewable characters",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, newServiceError("due_characters", "failed to list reviewable characters", err)
	}
	if len(characters) == 0 {
		log.Debug("no characters reviewable", slog.String("course_id", courseID.String()))
		return nil, ErrNoItemsDue
	}

	return characters, nil
}

// SubmitWord implements ReviewService.SubmitWord.
func (s *reviewServiceImpl) SubmitWord(
	ctx context.Context,
	wordID uuid.UUID,
	correct bool,
	now time.Time,
) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing word review",
		slog.String("word_id", wordID.String()),
		slog.Bool("correct", correct))

	var updated *domain.Word
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		words := s.words.WithTx(tx)

		word, err := words.GetByID(ctx, wordID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get word: %w", err)
		}

		next, err := s.srsService.ReviewWord(word, domain.DifficultyForAnswer(correct), now)
		if err != nil {
			return fmt.Errorf("failed to reschedule word: %w", err)
		}

		if err := words.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update word: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			log.Warn("word not found for review", slog.String("word_id", wordID.String()))
			return nil, err
		}
		log.Error("failed to submit word review",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return nil, newServiceError("submit_word", "failed to submit word review", err)
	}

	log.Debug("word review processed",
		slog.String("word_id", wordID.String()),
		slog.Int("srs_level", updated.SRSLevel),
		slog.Time("next_review", updated.NextReview))
	return updated, nil
}

// SubmitCloze implements ReviewService.SubmitCloze.
func (s *reviewServiceImpl) SubmitCloze(
	ctx context.Context,
	sentenceID uuid.UUID,
	answer string,
	now time.Time,
) (*ClozeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *ClozeResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		clozes := s.clozes.WithTx(tx)

		sentence, err := clozes.GetByID(ctx, sentenceID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get cloze sentence: %w", err)
		}

		correct := answersMatch(answer, sentence.Answer)

		next, err := s.srsService.ReviewCloze(sentence, correct, now)
		if err != nil {
			return fmt.Errorf("failed to reschedule cloze sentence: %w", err)
		}

		if err := clozes.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update cloze sentence: %w", err)
		}

		result = &ClozeResult{Correct: correct, Sentence: next}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			log.Warn("cloze sentence not found for review",
				slog.String("sentence_id", sentenceID.String()))
			return nil, err
		}
		log.Error("failed to submit cloze review",
			slog.String("error", err.Error()),
			slog.String("sentence_id", sentenceID.String()))
		return nil, newServiceError("submit_cloze", "failed to submit cloze review", err)
	}

	log.Debug("cloze review processed",
		slog.String("sentence_id", sentenceID.String()),
		slog.Bool("correct", result.Correct),
		slog.Int("srs_level", result.Sentence.SRSLevel))
	return result, nil
}

// SubmitCharacter implements ReviewService.SubmitCharacter.
func (s *reviewServiceImpl) SubmitCharacter(
	ctx context.Context,
	characterID uuid.UUID,
	meaningAnswer, readingAnswer string,
	now time.Time,
) (*CharacterResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *CharacterResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		characters := s.characters.WithTx(tx)

		character, err := characters.GetByID(ctx, characterID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get character: %w", err)
		}

		meaningCorrect := answersMatch(meaningAnswer, character.Meaning)
		// Characters without a recorded pronunciation have no reading
		// axis to fail.
		readingCorrect := character.Pronunciation == "" ||
			answersMatch(readingAnswer, character.Pronunciation)

		next, err := s.srsService.ReviewCharacter(character, meaningCorrect, readingCorrect, now)
		if err != nil {
			return err
		}

		if err := characters.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update character: %w", err)
		}

		result = &CharacterResult{
			MeaningCorrect: meaningCorrect,
			ReadingCorrect: readingCorrect,
			Character:      next,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) ||
			errors.Is(err, domain.ErrCharacterLocked) ||
			errors.Is(err, domain.ErrCharacterBurned) {
			log.Warn("character not reviewable",
				slog.String("character_id", characterID.String()),
				slog.String("reason", err.Error()))
			return nil, err
		}
		log.Error("failed to submit character review",
			slog.String("error", err.Error()),
			slog.String("character_id", characterID.String()))
		return nil, newServiceError("submit_character", "failed to submit character review", err)
	}

	log.Debug("character review processed",
		slog.String("character_id", characterID.String()),
		slog.String("stage", string(result.Character.Stage)))
	return result, nil
}

// UnlockCharacter implements ReviewService.UnlockCharacter.
func (s *reviewServiceImpl) UnlockCharacter(
	ctx context.Context,
	characterID uuid.UUID,
	now time.Time,
) (*domain.Character, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Character
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		characters := s.characters.WithTx(tx)

		character, err := characters.GetByID(ctx, characterID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get character: %w", err)
		}

		next, err := s.srsService.UnlockCharacter(character, now)
		if err != nil {
			return err
		}

		if err := characters.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update character: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, domain.ErrCharacterNotLocked) {
			log.Warn("character unlock rejected",
				slog.String("character_id", characterID.String()),
				slog.String("reason", err.Error()))
			return nil, err
		}
		log.Error("failed to unlock character",
			slog.String("error", err.Error()),
			slog.String("character_id", characterID.String()))
		return nil, newServiceError("unlock_character", "failed to unlock character", err)
	}

	log.Info("character unlocked",
		slog.String("character_id", characterID.String()),
		slog.String("glyph", updated.Glyph))
	return updated, nil
}

// MarkDifficult implements ReviewService.MarkDifficult.
func (s *reviewServiceImpl) MarkDifficult(
	ctx context.Context,
	wordID uuid.UUID,
	difficult bool,
) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Word
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		words := s.words.WithTx(tx)

		word, err := words.GetByID(ctx, wordID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get word: %w", err)
		}

		// The flag is annotation only, the schedule stays untouched.
		next := *word
		next.IsDifficult = difficult
		next.UpdatedAt = time.Now().UTC()

		if err := words.Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update word: %w", err)
		}

		updated = &next
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
		log.Error("failed to mark word difficult",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return nil, newServiceError("mark_difficult", "failed to mark word difficult", err)
	}

	return updated, nil
}

// answersMatch compares a typed answer against the stored one, ignoring
// surrounding whitespace and letter case.
func answersMatch(got, want string) bool {
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}
