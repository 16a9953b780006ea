package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/kioku-app/kioku/internal/store"
)

// wordColumns is the select list shared by every word query.
var wordColumns = []string{
	"id", "course_id", "native", "target", "srs_level",
	"correct_count", "wrong_count", "next_review", "last_reviewed",
	"level", "is_difficult", "created_at", "updated_at",
}

// SQLiteWordStore implements the store.WordStore interface using a SQLite
// database as the storage backend.
type SQLiteWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewWordStore creates a new SQLite implementation of the WordStore
// interface. If logger is nil, a default logger will be used.
func NewWordStore(db store.DBTX, logger *slog.Logger) *SQLiteWordStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

var _ store.WordStore = (*SQLiteWordStore)(nil)

// CreateMultiple implements store.WordStore.CreateMultiple
func (s *SQLiteWordStore) CreateMultiple(ctx context.Context, words []*domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO words (
			id, course_id, native, target, srs_level,
			correct_count, wrong_count, next_review, last_reviewed,
			level, is_difficult, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, word := range words {
		if err := word.Validate(); err != nil {
			log.Warn("word validation failed during bulk create",
				slog.String("error", err.Error()),
				slog.String("word_id", word.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			word.ID,
			word.CourseID,
			word.Native,
			word.Target,
			word.SRSLevel,
			word.CorrectCount,
			word.WrongCount,
			word.NextReview,
			word.LastReviewed,
			word.Level,
			word.IsDifficult,
			word.CreatedAt,
			word.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: word %s", store.ErrDuplicate, word.ID)
			}
			if isConstraintError(err) {
				return fmt.Errorf("%w: course %s not found",
					store.ErrInvalidEntity, word.CourseID)
			}
			log.Error("failed to create word",
				slog.String("error", err.Error()),
				slog.String("word_id", word.ID.String()))
			return err
		}
	}

	log.Info("words created", slog.Int("count", len(words)))
	return nil
}

// GetByID implements store.WordStore.GetByID
func (s *SQLiteWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select(wordColumns...).
		From("words").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var word domain.Word
	if err := s.db.GetContext(ctx, &word, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, err
	}

	return &word, nil
}

// Update implements store.WordStore.Update
func (s *SQLiteWordStore) Update(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during update",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE words
		SET srs_level = ?, correct_count = ?, wrong_count = ?,
			next_review = ?, last_reviewed = ?, is_difficult = ?,
			updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		word.SRSLevel,
		word.CorrectCount,
		word.WrongCount,
		word.NextReview,
		word.LastReviewed,
		word.IsDifficult,
		word.UpdatedAt,
		word.ID,
	)
	if err != nil {
		log.Error("failed to update word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrWordNotFound
	}

	log.Debug("word updated",
		slog.String("word_id", word.ID.String()),
		slog.Int("srs_level", word.SRSLevel))
	return nil
}

// Delete implements store.WordStore.Delete
func (s *SQLiteWordStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrWordNotFound
	}

	return nil
}

// ListDue implements store.WordStore.ListDue
func (s *SQLiteWordStore) ListDue(
	ctx context.Context,
	courseID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select(wordColumns...).
		From("words").
		Where(sq.Eq{"course_id": courseID}).
		Where(sq.LtOrEq{"next_review": now}).
		OrderBy("next_review ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var words []*domain.Word
	if err := s.db.SelectContext(ctx, &words, query, args...); err != nil {
		log.Error("failed to list due words",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, err
	}

	return words, nil
}

// CountByLevel implements store.WordStore.CountByLevel
func (s *SQLiteWordStore) CountByLevel(ctx context.Context, courseID uuid.UUID) (map[int]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select("srs_level", "COUNT(*) AS n").
		From("words").
		Where(sq.Eq{"course_id": courseID}).
		GroupBy("srs_level").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to count words by level",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[int]int)
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}

	return counts, rows.Err()
}

// WithTx implements store.WordStore.WithTx
func (s *SQLiteWordStore) WithTx(tx *sqlx.Tx) store.WordStore {
	return &SQLiteWordStore{
		db:     tx,
		logger: s.logger,
	}
}
