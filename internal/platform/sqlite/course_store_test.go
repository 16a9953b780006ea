package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/store"
)

func TestCourseStoreCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	courseStore := NewCourseStore(db, nil)

	course, err := domain.NewCourse("Core 2k", "ja")
	require.NoError(t, err)

	require.NoError(t, courseStore.Create(ctx, course))

	// Duplicate IDs are rejected.
	err = courseStore.Create(ctx, course)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got, err := courseStore.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.Name, got.Name)
	assert.Equal(t, course.Language, got.Language)

	_, err = courseStore.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrCourseNotFound)

	other, err := domain.NewCourse("Anki Vocab", "de")
	require.NoError(t, err)
	require.NoError(t, courseStore.Create(ctx, other))

	courses, err := courseStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	// Ordered by name.
	assert.Equal(t, "Anki Vocab", courses[0].Name)
	assert.Equal(t, "Core 2k", courses[1].Name)

	require.NoError(t, courseStore.Delete(ctx, course.ID))
	assert.ErrorIs(t, courseStore.Delete(ctx, course.ID), store.ErrCourseNotFound)
}

func TestCourseDeleteCascadesToItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course := newTestCourse(t, db)

	wordStore := NewWordStore(db, nil)
	clozeStore := NewClozeStore(db, nil)
	characterStore := NewCharacterStore(db, nil)

	word, err := domain.NewWord(course.ID, "water", "mizu", 1)
	require.NoError(t, err)
	require.NoError(t, wordStore.CreateMultiple(ctx, []*domain.Word{word}))

	sentence, err := domain.NewClozeSentence(course.ID, "I drink water", "mizu wo nomu", "____ wo nomu", "mizu")
	require.NoError(t, err)
	require.NoError(t, clozeStore.CreateMultiple(ctx, []*domain.ClozeSentence{sentence}))

	character, err := domain.NewCharacter(course.ID, "水", "water", "みず", 1)
	require.NoError(t, err)
	require.NoError(t, characterStore.CreateMultiple(ctx, []*domain.Character{character}))

	require.NoError(t, NewCourseStore(db, nil).Delete(ctx, course.ID))

	_, err = wordStore.GetByID(ctx, word.ID)
	assert.ErrorIs(t, err, store.ErrWordNotFound)
	_, err = clozeStore.GetByID(ctx, sentence.ID)
	assert.ErrorIs(t, err, store.ErrClozeNotFound)
	_, err = characterStore.GetByID(ctx, character.ID)
	assert.ErrorIs(t, err, store.ErrCharacterNotFound)
}
