package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kioku-app/kioku/internal/domain"
)

// CharacterStore defines the interface for character data persistence.
type CharacterStore interface {
	// CreateMultiple saves multiple characters to the store. Import runs
	// this inside a transaction via WithTx.
	CreateMultiple(ctx context.Context, characters []*domain.Character) error

	// GetByID retrieves a character by its unique ID.
	// Returns ErrCharacterNotFound if the character does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error)

	// Update overwrites an existing character with the scheduler's output.
	// Returns ErrCharacterNotFound if the character does not exist.
	Update(ctx context.Context, character *domain.Character) error

	// Delete removes a character from the store by its ID.
	// Returns ErrCharacterNotFound if the character does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListReviewable returns up to limit characters of a course that are
	// neither locked nor burned, lowest stage first. Locked characters
	// are not presentable and burned ones never reappear.
	ListReviewable(ctx context.Context, courseID uuid.UUID, limit int) ([]*domain.Character, error)

	// ListLocked returns up to limit locked characters of a course at or
	// below the given course level, for the unlock flow.
	ListLocked(ctx context.Context, courseID uuid.UUID, maxLevel, limit int) ([]*domain.Character, error)

	// CountByStage returns the number of characters per stage for a
	// course. Used for statistics output only.
	CountByStage(ctx context.Context, courseID uuid.UUID) (map[domain.CharacterStage]int, error)

	// WithTx returns a new CharacterStore instance that uses the provided
	// transaction.
	WithTx(tx *sqlx.Tx) CharacterStore
}
