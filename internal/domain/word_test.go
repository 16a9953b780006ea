package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewWord(t *testing.T) {
	t.Parallel()
	courseID := uuid.New()

	word, err := NewWord(courseID, "water", "mizu", 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if word.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if word.CourseID != courseID {
		t.Errorf("Expected course ID %s, got %s", courseID, word.CourseID)
	}
	if word.SRSLevel != MinWordLevel {
		t.Errorf("Expected initial level %d, got %d", MinWordLevel, word.SRSLevel)
	}
	if word.CorrectCount != 0 || word.WrongCount != 0 {
		t.Error("Expected zero counters on a new word")
	}
	if word.NextReview.IsZero() {
		t.Error("Expected a new word to be immediately due, got zero NextReview")
	}
	if !word.LastReviewed.IsZero() {
		t.Error("Expected zero LastReviewed on a new word")
	}

	// Invalid inputs
	if _, err := NewWord(uuid.Nil, "water", "mizu", 3); err != ErrEmptyWordCourseID {
		t.Errorf("Expected ErrEmptyWordCourseID, got %v", err)
	}
	if _, err := NewWord(courseID, "", "mizu", 3); err != ErrEmptyWordNative {
		t.Errorf("Expected ErrEmptyWordNative, got %v", err)
	}
	if _, err := NewWord(courseID, "water", "", 3); err != ErrEmptyWordTarget {
		t.Errorf("Expected ErrEmptyWordTarget, got %v", err)
	}
}

func TestWordValidateLevelBounds(t *testing.T) {
	t.Parallel()

	word, err := NewWord(uuid.New(), "water", "mizu", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	word.SRSLevel = MaxWordLevel + 1
	if err := word.Validate(); err != ErrInvalidWordLevel {
		t.Errorf("Expected ErrInvalidWordLevel, got %v", err)
	}

	word.SRSLevel = -1
	if err := word.Validate(); err != ErrInvalidWordLevel {
		t.Errorf("Expected ErrInvalidWordLevel, got %v", err)
	}
}

func TestMasteryBandForLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level    int
		expected MasteryBand
	}{
		{-1, MasteryBandSeed},
		{0, MasteryBandSeed},
		{1, MasteryBandSprout},
		{2, MasteryBandSprout},
		{3, MasteryBandSeedling},
		{4, MasteryBandSeedling},
		{5, MasteryBandPlant},
		{6, MasteryBandPlant},
		{7, MasteryBandTree},
		{8, MasteryBandTree},
		{9, MasteryBandMastered},
		{15, MasteryBandMastered},
	}

	for _, tc := range testCases {
		if got := MasteryBandForLevel(tc.level); got != tc.expected {
			t.Errorf("level %d: expected %s, got %s", tc.level, tc.expected, got)
		}
	}

	// The mapping is monotonic across the whole ladder.
	for level := MinWordLevel + 1; level <= MaxWordLevel; level++ {
		if MasteryBandForLevel(level).Index() < MasteryBandForLevel(level-1).Index() {
			t.Errorf("Band order broken between levels %d and %d", level-1, level)
		}
	}
}

func TestDifficultyForAnswer(t *testing.T) {
	t.Parallel()

	if got := DifficultyForAnswer(true); got != ReviewDifficultyEasy {
		t.Errorf("Expected easy, got %s", got)
	}
	if got := DifficultyForAnswer(false); got != ReviewDifficultyHard {
		t.Errorf("Expected hard, got %s", got)
	}
	if ReviewDifficulty("medium").IsValid() {
		t.Error("Expected medium to be invalid")
	}
}
