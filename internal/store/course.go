package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/domain"
)

// CourseStore defines the interface for course data persistence.
type CourseStore interface {
	// Create saves a new course to the store.
	// Returns validation errors from the domain Course if data is invalid.
	// Returns ErrDuplicate if a course with the same ID already exists.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course by its unique ID.
	// Returns ErrCourseNotFound if the course does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)

	// List returns all courses ordered by name.
	List(ctx context.Context) ([]*domain.Course, error)

	// Delete removes a course and, through ON DELETE CASCADE foreign
	// keys, every word, cloze sentence and character it owns.
	// Returns ErrCourseNotFound if the course does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CourseStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sqlx.Tx) CourseStore
}
