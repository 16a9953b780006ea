package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/kioku-app/kioku/internal/store"
)

// characterColumns is the select list shared by every character query.
var characterColumns = []string{
	"id", "course_id", "glyph", "meaning", "pronunciation", "level",
	"stage", "correct_count", "wrong_count",
	"meaning_correct", "meaning_wrong", "reading_correct", "reading_wrong",
	"unlocked_at", "burned_at", "created_at", "updated_at",
}

// stageRank orders rows along the ladder; TEXT ordering of the stage
// column would not.
const stageRank = `CASE stage
	WHEN 'locked' THEN 0
	WHEN 'apprentice' THEN 1
	WHEN 'guru' THEN 2
	WHEN 'master' THEN 3
	WHEN 'enlightened' THEN 4
	WHEN 'burned' THEN 5
END`

// SQLiteCharacterStore implements the store.CharacterStore interface
// using a SQLite database as the storage backend.
type SQLiteCharacterStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCharacterStore creates a new SQLite implementation of the
// CharacterStore interface. If logger is nil, a default logger will be
// used.
func NewCharacterStore(db store.DBTX, logger *slog.Logger) *SQLiteCharacterStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteCharacterStore{
		db:     db,
		logger: logger.With(slog.String("component", "character_store")),
	}
}

var _ store.CharacterStore = (*SQLiteCharacterStore)(nil)

// CreateMultiple implements store.CharacterStore.CreateMultiple
func (s *SQLiteCharacterStore) CreateMultiple(ctx context.Context, characters []*domain.Character) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO characters (
			id, course_id, glyph, meaning, pronunciation, level,
			stage, correct_count, wrong_count,
			meaning_correct, meaning_wrong, reading_correct, reading_wrong,
			unlocked_at, burned_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, character := range characters {
		if err := character.Validate(); err != nil {
			log.Warn("character validation failed during bulk create",
				slog.String("error", err.Error()),
				slog.String("character_id", character.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			character.ID,
			character.CourseID,
			character.Glyph,
			character.Meaning,
			character.Pronunciation,
			character.Level,
			character.Stage,
			character.CorrectCount,
			character.WrongCount,
			character.MeaningCorrect,
			character.MeaningWrong,
			character.ReadingCorrect,
			character.ReadingWrong,
			character.UnlockedAt,
			character.BurnedAt,
			character.CreatedAt,
			character.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: character %s", store.ErrDuplicate, character.ID)
			}
			if isConstraintError(err) {
				return fmt.Errorf("%w: course %s not found",
					store.ErrInvalidEntity, character.CourseID)
			}
			log.Error("failed to create character",
				slog.String("error", err.Error()),
				slog.String("character_id", character.ID.String()))
			return err
		}
	}

	log.Info("characters created", slog.Int("count", len(characters)))
	return nil
}

// GetByID implements store.CharacterStore.GetByID
func (s *SQLiteCharacterStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select(characterColumns...).
		From("characters").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var character domain.Character
	if err := s.db.GetContext(ctx, &character, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCharacterNotFound
		}
		log.Error("failed to get character",
			slog.String("error", err.Error()),
			slog.String("character_id", id.String()))
		return nil, err
	}

	return &character, nil
}

// Update implements store.CharacterStore.Update
func (s *SQLiteCharacterStore) Update(ctx context.Context, character *domain.Character) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := character.Validate(); err != nil {
		log.Warn("character validation failed during update",
			slog.String("error", err.Error()),
			slog.String("character_id", character.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE characters
		SET stage = ?, correct_count = ?, wrong_count = ?,
			meaning_correct = ?, meaning_wrong = ?,
			reading_correct = ?, reading_wrong = ?,
			unlocked_at = ?, burned_at = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		character.Stage,
		character.CorrectCount,
		character.WrongCount,
		character.MeaningCorrect,
		character.MeaningWrong,
		character.ReadingCorrect,
		character.ReadingWrong,
		character.UnlockedAt,
		character.BurnedAt,
		character.UpdatedAt,
		character.ID,
	)
	if err != nil {
		log.Error("failed to update character",
			slog.String("error", err.Error()),
			slog.String("character_id", character.ID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrCharacterNotFound
	}

	log.Debug("character updated",
		slog.String("character_id", character.ID.String()),
		slog.String("stage", string(character.Stage)))
	return nil
}

// Delete implements store.CharacterStore.Delete
func (s *SQLiteCharacterStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete character",
			slog.String("error", err.Error()),
			slog.String("character_id", id.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrCharacterNotFound
	}

	return nil
}

// ListReviewable implements store.CharacterStore.ListReviewable
func (s *SQLiteCharacterStore) ListReviewable(
	ctx context.Context,
	courseID uuid.UUID,
	limit int,
) ([]*domain.Character, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select(characterColumns...).
		From("characters").
		Where(sq.Eq{"course_id": courseID}).
		Where(sq.NotEq{"stage": []string{
			string(domain.CharacterStageLocked),
			string(domain.CharacterStageBurned),
		}}).
		OrderBy(stageRank+" ASC", "level ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var characters []*domain.Character
	if err := s.db.SelectContext(ctx, &characters, query, args...); err != nil {
		log.Error("failed to list reviewable characters",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, err
	}

	return characters, nil
}

// ListLocked implements store.CharacterStore.ListLocked
func (s *SQLiteCharacterStore) ListLocked(
	ctx context.Context,
	courseID uuid.UUID,
	maxLevel, limit int,
) ([]*domain.Character, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select(characterColumns...).
		From("characters").
		Where(sq.Eq{"course_id": courseID}).
		Where(sq.Eq{"stage": string(domain.CharacterStageLocked)}).
		Where(sq.LtOrEq{"level": maxLevel}).
		OrderBy("level ASC", "created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var characters []*domain.Character
	if err := s.db.SelectContext(ctx, &characters, query, args...); err != nil {
		log.Error("failed to list locked characters",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, err
	}

	return characters, nil
}

// CountByStage implements store.CharacterStore.CountByStage
func (s *SQLiteCharacterStore) CountByStage(
	ctx context.Context,
	courseID uuid.UUID,
) (map[domain.CharacterStage]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select("stage", "COUNT(*) AS n").
		From("characters").
		Where(sq.Eq{"course_id": courseID}).
		GroupBy("stage").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to count characters by stage",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.CharacterStage]int)
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		counts[domain.CharacterStage(stage)] = n
	}

	return counts, rows.Err()
}

// WithTx implements store.CharacterStore.WithTx
func (s *SQLiteCharacterStore) WithTx(tx *sqlx.Tx) store.CharacterStore {
	return &SQLiteCharacterStore{
		db:     tx,
		logger: s.logger,
	}
}
