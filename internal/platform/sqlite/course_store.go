package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/kioku-app/kioku/internal/store"
)

// SQLiteCourseStore implements the store.CourseStore interface using a
// SQLite database as the storage backend.
type SQLiteCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCourseStore creates a new SQLite implementation of the CourseStore
// interface. If logger is nil, a default logger will be used.
func NewCourseStore(db store.DBTX, logger *slog.Logger) *SQLiteCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "course_store")),
	}
}

var _ store.CourseStore = (*SQLiteCourseStore)(nil)

// Create implements store.CourseStore.Create
func (s *SQLiteCourseStore) Create(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during create",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	query := `
		INSERT INTO courses (id, name, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		course.ID,
		course.Name,
		course.Language,
		course.CreatedAt,
		course.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: course %s", store.ErrDuplicate, course.ID)
		}
		log.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	log.Info("course created",
		slog.String("course_id", course.ID.String()),
		slog.String("name", course.Name),
		slog.String("language", course.Language))
	return nil
}

// GetByID implements store.CourseStore.GetByID
func (s *SQLiteCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, language, created_at, updated_at
		FROM courses
		WHERE id = ?
	`

	var course domain.Course
	err := s.db.GetContext(ctx, &course, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCourseNotFound
		}
		log.Error("failed to get course",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return nil, err
	}

	return &course, nil
}

// List implements store.CourseStore.List
func (s *SQLiteCourseStore) List(ctx context.Context) ([]*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, language, created_at, updated_at
		FROM courses
		ORDER BY name ASC
	`

	var courses []*domain.Course
	if err := s.db.SelectContext(ctx, &courses, query); err != nil {
		log.Error("failed to list courses", slog.String("error", err.Error()))
		return nil, err
	}

	return courses, nil
}

// Delete implements store.CourseStore.Delete.
// Item rows are removed by the ON DELETE CASCADE foreign keys declared in
// the schema, so only the course row is deleted here.
func (s *SQLiteCourseStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete course",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrCourseNotFound
	}

	log.Info("course deleted", slog.String("course_id", id.String()))
	return nil
}

// WithTx implements store.CourseStore.WithTx
func (s *SQLiteCourseStore) WithTx(tx *sqlx.Tx) store.CourseStore {
	return &SQLiteCourseStore{
		db:     tx,
		logger: s.logger,
	}
}
