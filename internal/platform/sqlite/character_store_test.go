package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/store"
)

func newStoredCharacter(t *testing.T, course *domain.Course, stage domain.CharacterStage, level int, tag string) *domain.Character {
	t.Helper()

	character, err := domain.NewCharacter(course.ID, "字"+tag, "meaning "+tag, "reading", level)
	require.NoError(t, err)
	character.Stage = stage
	return character
}

func TestCharacterStoreCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course := newTestCourse(t, db)
	characterStore := NewCharacterStore(db, nil)

	character, err := domain.NewCharacter(course.ID, "水", "water", "みず", 1)
	require.NoError(t, err)
	require.NoError(t, characterStore.CreateMultiple(ctx, []*domain.Character{character}))

	got, err := characterStore.GetByID(ctx, character.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CharacterStageLocked, got.Stage)
	assert.Nil(t, got.UnlockedAt)
	assert.Nil(t, got.BurnedAt)

	now := time.Now().UTC()
	got.Stage = domain.CharacterStageApprentice
	got.UnlockedAt = &now
	got.MeaningCorrect = 2
	got.ReadingWrong = 1
	got.UpdatedAt = now
	require.NoError(t, characterStore.Update(ctx, got))

	updated, err := characterStore.GetByID(ctx, character.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CharacterStageApprentice, updated.Stage)
	require.NotNil(t, updated.UnlockedAt)
	assert.WithinDuration(t, now, *updated.UnlockedAt, time.Second)
	assert.Equal(t, 2, updated.MeaningCorrect)
	assert.Equal(t, 1, updated.ReadingWrong)

	require.NoError(t, characterStore.Delete(ctx, character.ID))
	assert.ErrorIs(t, characterStore.Delete(ctx, character.ID), store.ErrCharacterNotFound)
}

func TestCharacterStoreListReviewable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course := newTestCourse(t, db)
	characterStore := NewCharacterStore(db, nil)

	stages := []domain.CharacterStage{
		domain.CharacterStageLocked,
		domain.CharacterStageApprentice,
		domain.CharacterStageGuru,
		domain.CharacterStageBurned,
		domain.CharacterStageMaster,
	}
	var characters []*domain.Character
	for i, stage := range stages {
		characters = append(characters, newStoredCharacter(t, course, stage, 1, fmt.Sprintf("c%d", i)))
	}
	require.NoError(t, characterStore.CreateMultiple(ctx, characters))

	reviewable, err := characterStore.ListReviewable(ctx, course.ID, 10)
	require.NoError(t, err)
	// Locked and burned never appear in the pool.
	require.Len(t, reviewable, 3)
	for _, character := range reviewable {
		assert.NotEqual(t, domain.CharacterStageLocked, character.Stage)
		assert.NotEqual(t, domain.CharacterStageBurned, character.Stage)
	}
	// Lowest stage first.
	assert.Equal(t, domain.CharacterStageApprentice, reviewable[0].Stage)
	assert.Equal(t, domain.CharacterStageGuru, reviewable[1].Stage)
	assert.Equal(t, domain.CharacterStageMaster, reviewable[2].Stage)
}

func TestCharacterStoreListLocked(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course := newTestCourse(t, db)
	characterStore := NewCharacterStore(db, nil)

	characters := []*domain.Character{
		newStoredCharacter(t, course, domain.CharacterStageLocked, 1, "a"),
		newStoredCharacter(t, course, domain.CharacterStageLocked, 5, "b"),
		newStoredCharacter(t, course, domain.CharacterStageLocked, 20, "c"),
		newStoredCharacter(t, course, domain.CharacterStageApprentice, 1, "d"),
	}
	require.NoError(t, characterStore.CreateMultiple(ctx, characters))

	locked, err := characterStore.ListLocked(ctx, course.ID, 10, 10)
	require.NoError(t, err)
	// Only locked characters within the level cap, lowest level first.
	require.Len(t, locked, 2)
	assert.Equal(t, 1, locked[0].Level)
	assert.Equal(t, 5, locked[1].Level)
}

func TestCharacterStoreCountByStage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course := newTestCourse(t, db)
	characterStore := NewCharacterStore(db, nil)

	stages := []domain.CharacterStage{
		domain.CharacterStageLocked,
		domain.CharacterStageLocked,
		domain.CharacterStageGuru,
		domain.CharacterStageBurned,
	}
	var characters []*domain.Character
	for i, stage := range stages {
		characters = append(characters, newStoredCharacter(t, course, stage, 1, fmt.Sprintf("c%d", i)))
	}
	require.NoError(t, characterStore.CreateMultiple(ctx, characters))

	counts, err := characterStore.CountByStage(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, map[domain.CharacterStage]int{
		domain.CharacterStageLocked: 2,
		domain.CharacterStageGuru:   1,
		domain.CharacterStageBurned: 1,
	}, counts)
}
