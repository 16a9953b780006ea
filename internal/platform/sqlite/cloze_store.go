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

// clozeColumns is the select list shared by every cloze sentence query.
var clozeColumns = []string{
	"id", "course_id", "native", "target", "cloze_text", "answer",
	"srs_level", "correct_count", "wrong_count", "created_at", "updated_at",
}

// SQLiteClozeStore implements the store.ClozeSentenceStore interface
// using a SQLite database as the storage backend.
type SQLiteClozeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewClozeStore creates a new SQLite implementation of the
// ClozeSentenceStore interface. If logger is nil, a default logger will
// be used.
func NewClozeStore(db store.DBTX, logger *slog.Logger) *SQLiteClozeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteClozeStore{
		db:     db,
		logger: logger.With(slog.String("component", "cloze_store")),
	}
}

var _ store.ClozeSentenceStore = (*SQLiteClozeStore)(nil)

// CreateMultiple implements store.ClozeSentenceStore.CreateMultiple
func (s *SQLiteClozeStore) CreateMultiple(ctx context.Context, sentences []*domain.ClozeSentence) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO cloze_sentences (
			id, course_id, native, target, cloze_text, answer,
			srs_level, correct_count, wrong_count, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, sentence := range sentences {
		if err := sentence.Validate(); err != nil {
			log.Warn("cloze sentence validation failed during bulk create",
				slog.String("error", err.Error()),
				slog.String("cloze_id", sentence.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			sentence.ID,
			sentence.CourseID,
			sentence.Native,
			sentence.Target,
			sentence.ClozeText,
			sentence.Answer,
			sentence.SRSLevel,
			sentence.CorrectCount,
			sentence.WrongCount,
			sentence.CreatedAt,
			sentence.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: cloze sentence %s", store.ErrDuplicate, sentence.ID)
			}
			if isConstraintError(err) {
				return fmt.Errorf("%w: course %s not found",
					store.ErrInvalidEntity, sentence.CourseID)
			}
			log.Error("failed to create cloze sentence",
				slog.String("error", err.Error()),
				slog.String("cloze_id", sentence.ID.String()))
			return err
		}
	}

	log.Info("cloze sentences created", slog.Int("count", len(sentences)))
	return nil
}

// GetByID implements store.ClozeSentenceStore.GetByID
func (s *SQLiteClozeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClozeSentence, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select(clozeColumns...).
		From("cloze_sentences").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var sentence domain.ClozeSentence
	if err := s.db.GetContext(ctx, &sentence, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrClozeNotFound
		}
		log.Error("failed to get cloze sentence",
			slog.String("error", err.Error()),
			slog.String("cloze_id", id.String()))
		return nil, err
	}

	return &sentence, nil
}

// Update implements store.ClozeSentenceStore.Update
func (s *SQLiteClozeStore) Update(ctx context.Context, sentence *domain.ClozeSentence) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sentence.Validate(); err != nil {
		log.Warn("cloze sentence validation failed during update",
			slog.String("error", err.Error()),
			slog.String("cloze_id", sentence.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cloze_sentences
		SET srs_level = ?, correct_count = ?, wrong_count = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		sentence.SRSLevel,
		sentence.CorrectCount,
		sentence.WrongCount,
		sentence.UpdatedAt,
		sentence.ID,
	)
	if err != nil {
		log.Error("failed to update cloze sentence",
			slog.String("error", err.Error()),
			slog.String("cloze_id", sentence.ID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrClozeNotFound
	}

	log.Debug("cloze sentence updated",
		slog.String("cloze_id", sentence.ID.String()),
		slog.Int("srs_level", sentence.SRSLevel))
	return nil
}

// Delete implements store.ClozeSentenceStore.Delete
func (s *SQLiteClozeStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cloze_sentences WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete cloze sentence",
			slog.String("error", err.Error()),
			slog.String("cloze_id", id.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrClozeNotFound
	}

	return nil
}

// ListReviewable implements store.ClozeSentenceStore.ListReviewable
func (s *SQLiteClozeStore) ListReviewable(
	ctx context.Context,
	courseID uuid.UUID,
	limit int,
) ([]*domain.ClozeSentence, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select(clozeColumns...).
		From("cloze_sentences").
		Where(sq.Eq{"course_id": courseID}).
		Where(sq.Lt{"srs_level": domain.ClozeTreeFloor}).
		OrderBy("srs_level ASC", "updated_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var sentences []*domain.ClozeSentence
	if err := s.db.SelectContext(ctx, &sentences, query, args...); err != nil {
		log.Error("failed to list reviewable cloze sentences",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, err
	}

	return sentences, nil
}

// CountByStage implements store.ClozeSentenceStore.CountByStage.
// Stage boundaries live in the domain mapping, so the rows are grouped by
// numeric level and folded into stages here.
func (s *SQLiteClozeStore) CountByStage(
	ctx context.Context,
	courseID uuid.UUID,
) (map[domain.ClozeStage]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sq.Select("srs_level", "COUNT(*) AS n").
		From("cloze_sentences").
		Where(sq.Eq{"course_id": courseID}).
		GroupBy("srs_level").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to count cloze sentences by stage",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.ClozeStage]int)
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[domain.ClozeStageForLevel(level)] += n
	}

	return counts, rows.Err()
}

// WithTx implements store.ClozeSentenceStore.WithTx
func (s *SQLiteClozeStore) WithTx(tx *sqlx.Tx) store.ClozeSentenceStore {
	return &SQLiteClozeStore{
		db:     tx,
		logger: s.logger,
	}
}
