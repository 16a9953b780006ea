package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kioku-app/kioku/internal/domain"
)

func testSentence(level int) *domain.ClozeSentence {
	return &domain.ClozeSentence{
		ID:        uuid.New(),
		CourseID:  uuid.New(),
		Native:    "I drink water",
		Target:    "mizu wo nomu",
		ClozeText: "____ wo nomu",
		Answer:    "mizu",
		SRSLevel:  level,
	}
}

func TestNextClozeLevel(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		correct  bool
		expected int
	}{
		{
			name:     "correct answer increments level",
			current:  2,
			correct:  true,
			expected: 3,
		},
		{
			name:     "correct answer at ceiling stays at ceiling",
			current:  domain.MaxClozeLevel,
			correct:  true,
			expected: domain.MaxClozeLevel,
		},
		{
			name:     "incorrect answer drops one level",
			current:  4,
			correct:  false,
			expected: 3,
		},
		{
			name:     "incorrect answer at floor stays at floor",
			current:  0,
			correct:  false,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := nextClozeLevel(tc.current, tc.correct, params)

			if got != tc.expected {
				t.Errorf("Expected level %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestClozeStageIsMonotonicInLevel(t *testing.T) {
	t.Parallel()

	previous := domain.ClozeStageForLevel(domain.MinClozeLevel)
	for level := domain.MinClozeLevel + 1; level <= domain.MaxClozeLevel; level++ {
		stage := domain.ClozeStageForLevel(level)

		if stage.Index() < previous.Index() {
			t.Errorf("Stage order broken: level %d maps to %s below %s", level, stage, previous)
		}
		if stage.Index() > previous.Index()+1 {
			t.Errorf("Stage skipped a band: level %d jumps from %s to %s", level, previous, stage)
		}
		previous = stage
	}
}

func TestClozeFiveCorrectFromSeedReachesPlant(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Crossing seed to tree takes seven increments with these band
	// thresholds, so five in a row lands in plant.
	sentence := testSentence(0)
	for i := 0; i < 5; i++ {
		sentence = calculateNextCloze(sentence, true, now, params)
	}

	if sentence.SRSLevel != 5 {
		t.Errorf("Expected level 5, got %d", sentence.SRSLevel)
	}
	if stage := sentence.Stage(); stage != domain.ClozeStagePlant {
		t.Errorf("Expected plant stage, got %s", stage)
	}

	// Two more correct answers cross into tree.
	sentence = calculateNextCloze(sentence, true, now, params)
	sentence = calculateNextCloze(sentence, true, now, params)
	if stage := sentence.Stage(); stage != domain.ClozeStageTree {
		t.Errorf("Expected tree stage after seven correct answers, got %s", stage)
	}
}

func TestCalculateNextClozeCounters(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	sentence := testSentence(3)
	next := calculateNextCloze(sentence, false, now, params)

	if next.SRSLevel != 2 {
		t.Errorf("Expected level 2, got %d", next.SRSLevel)
	}
	if next.WrongCount != 1 || next.CorrectCount != 0 {
		t.Errorf("Expected counters 0/1, got %d/%d", next.CorrectCount, next.WrongCount)
	}
	if sentence.SRSLevel != 3 || sentence.WrongCount != 0 {
		t.Error("Input sentence was mutated")
	}
}

func TestClozeRegressionNeverEndsAboveStart(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	for start := 0; start <= domain.MaxClozeLevel; start++ {
		for n := 1; n <= 5; n++ {
			sentence := testSentence(start)
			for i := 0; i < n; i++ {
				sentence = calculateNextCloze(sentence, true, now, params)
			}
			for i := 0; i < n; i++ {
				sentence = calculateNextCloze(sentence, false, now, params)
			}

			if sentence.SRSLevel > start {
				t.Errorf("start=%d n=%d: ended at %d, above the starting level",
					start, n, sentence.SRSLevel)
			}
		}
	}
}
