package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/domain"
)

// ClozeSentenceStore defines the interface for cloze sentence persistence.
type ClozeSentenceStore interface {
	// CreateMultiple saves multiple cloze sentences to the store. Import
	// runs this inside a transaction via WithTx.
	CreateMultiple(ctx context.Context, sentences []*domain.ClozeSentence) error

	// GetByID retrieves a cloze sentence by its unique ID.
	// Returns ErrClozeNotFound if the sentence does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClozeSentence, error)

	// Update overwrites an existing sentence with the scheduler's output.
	// Returns ErrClozeNotFound if the sentence does not exist.
	Update(ctx context.Context, sentence *domain.ClozeSentence) error

	// Delete removes a cloze sentence from the store by its ID.
	// Returns ErrClozeNotFound if the sentence does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListReviewable returns up to limit sentences of a course below the
	// tree stage, lowest level first. Tree sentences are fully mastered
	// and stay out of review pools.
	ListReviewable(ctx context.Context, courseID uuid.UUID, limit int) ([]*domain.ClozeSentence, error)

	// CountByStage returns the number of sentences per mastery stage for
	// a course. Used for statistics output only.
	CountByStage(ctx context.Context, courseID uuid.UUID) (map[domain.ClozeStage]int, error)

	// WithTx returns a new ClozeSentenceStore instance that uses the
	// provided transaction.
	WithTx(tx *sqlx.Tx) ClozeSentenceStore
}
