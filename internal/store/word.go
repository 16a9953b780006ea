package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/domain"
)

// WordStore defines the interface for word data persistence.
type WordStore interface {
	// CreateMultiple saves multiple words to the store. Import runs this
	// inside a transaction via WithTx so a failed file never leaves a
	// partial course behind.
	// Returns validation errors if any word data is invalid.
	CreateMultiple(ctx context.Context, words []*domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// Update overwrites an existing word with the scheduler's output.
	// Returns ErrWordNotFound if the word does not exist.
	// Returns validation errors if the word data is invalid.
	Update(ctx context.Context, word *domain.Word) error

	// Delete removes a word from the store by its ID.
	// Returns ErrWordNotFound if the word does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListDue returns up to limit words of a course with
	// next_review <= now, most overdue first.
	ListDue(ctx context.Context, courseID uuid.UUID, now time.Time, limit int) ([]*domain.Word, error)

	// CountByLevel returns the number of words per SRS level for a
	// course. Used for statistics output only.
	CountByLevel(ctx context.Context, courseID uuid.UUID) (map[int]int, error)

	// WithTx returns a new WordStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sqlx.Tx) WordStore
}
