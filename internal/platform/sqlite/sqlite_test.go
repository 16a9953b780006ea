package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/kioku-app/kioku/internal/domain"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, MigrateUp(db, nil))
	return db
}

// newTestCourse creates and persists a course for item tests to hang off.
func newTestCourse(t *testing.T, db *sqlx.DB) *domain.Course {
	t.Helper()

	course, err := domain.NewCourse("JLPT N5", "ja")
	require.NoError(t, err)
	require.NoError(t, NewCourseStore(db, nil).Create(context.Background(), course))
	return course
}

func TestOpenAndMigrate(t *testing.T) {
	db := newTestDB(t)

	// Foreign keys must be enforced for cascade deletes to work.
	var enabled int
	require.NoError(t, db.Get(&enabled, "PRAGMA foreign_keys"))
	require.Equal(t, 1, enabled)

	// All four tables exist.
	var n int
	require.NoError(t, db.Get(&n, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table'
		  AND name IN ('courses', 'words', 'cloze_sentences', 'characters')
	`))
	require.Equal(t, 4, n)
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, MigrateUp(db, nil))
}

func TestTimestampRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course := newTestCourse(t, db)
	wordStore := NewWordStore(db, nil)

	word, err := domain.NewWord(course.ID, "water", "mizu", 1)
	require.NoError(t, err)
	require.NoError(t, wordStore.CreateMultiple(ctx, []*domain.Word{word}))

	got, err := wordStore.GetByID(ctx, word.ID)
	require.NoError(t, err)
	require.WithinDuration(t, word.NextReview, got.NextReview, time.Second)
	require.True(t, got.LastReviewed.IsZero() || got.LastReviewed.Year() == 1,
		"expected zero-ish LastReviewed, got %v", got.LastReviewed)
}
