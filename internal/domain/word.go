package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewDifficulty is the coarse correctness signal for word reviews.
// The practice layer maps a correct answer to Easy and an incorrect
// answer to Hard; there is no partial credit.
type ReviewDifficulty string

// Possible review difficulty values
const (
	ReviewDifficultyEasy ReviewDifficulty = "easy"
	ReviewDifficultyHard ReviewDifficulty = "hard"
)

// DifficultyForAnswer converts a correctness flag into a ReviewDifficulty.
func DifficultyForAnswer(correct bool) ReviewDifficulty {
	if correct {
		return ReviewDifficultyEasy
	}
	return ReviewDifficultyHard
}

// IsValid reports whether the difficulty is a known value.
func (d ReviewDifficulty) IsValid() bool {
	return d == ReviewDifficultyEasy || d == ReviewDifficultyHard
}

// MinWordLevel and MaxWordLevel bound the word SRS ladder.
const (
	MinWordLevel = 0
	MaxWordLevel = 9
)

// MasteryBand is the human-readable bucket derived from a word's numeric
// SRS level. Bands are used for display and statistics only; scheduling
// always works on the numeric level.
type MasteryBand string

// Mastery bands in ascending order.
const (
	MasteryBandSeed     MasteryBand = "seed"
	MasteryBandSprout   MasteryBand = "sprout"
	MasteryBandSeedling MasteryBand = "seedling"
	MasteryBandPlant    MasteryBand = "plant"
	MasteryBandTree     MasteryBand = "tree"
	MasteryBandMastered MasteryBand = "mastered"
)

// masteryBandOrder fixes the total order of bands.
var masteryBandOrder = []MasteryBand{
	MasteryBandSeed,
	MasteryBandSprout,
	MasteryBandSeedling,
	MasteryBandPlant,
	MasteryBandTree,
	MasteryBandMastered,
}

// MasteryBandForLevel maps a numeric word level to its band:
// 0 seed, 1-2 sprout, 3-4 seedling, 5-6 plant, 7-8 tree, 9 mastered.
// Levels outside [MinWordLevel, MaxWordLevel] are clamped first, so the
// mapping is total and monotonic.
func MasteryBandForLevel(level int) MasteryBand {
	switch {
	case level <= 0:
		return MasteryBandSeed
	case level <= 2:
		return MasteryBandSprout
	case level <= 4:
		return MasteryBandSeedling
	case level <= 6:
		return MasteryBandPlant
	case level <= 8:
		return MasteryBandTree
	default:
		return MasteryBandMastered
	}
}

// Index returns the band's position in the total order, or -1 for an
// unknown band. It exists so callers compare bands by rank instead of
// comparing label strings.
func (b MasteryBand) Index() int {
	for i, band := range masteryBandOrder {
		if band == b {
			return i
		}
	}
	return -1
}

// Common validation errors for Word
var (
	ErrEmptyWordID       = errors.New("word ID cannot be empty")
	ErrEmptyWordCourseID = errors.New("word course ID cannot be empty")
	ErrEmptyWordNative   = errors.New("word native text cannot be empty")
	ErrEmptyWordTarget   = errors.New("word target text cannot be empty")
	ErrInvalidWordLevel  = errors.New("word SRS level out of range")
)

// Word is a discrete vocabulary item scheduled on the 0-9 level ladder.
// SRSLevel only rises on correct answers and falls on incorrect ones;
// NextReview is recomputed whenever SRSLevel changes.
type Word struct {
	ID           uuid.UUID `json:"id"            db:"id"`
	CourseID     uuid.UUID `json:"course_id"     db:"course_id"`
	Native       string    `json:"native"        db:"native"`
	Target       string    `json:"target"        db:"target"`
	SRSLevel     int       `json:"srs_level"     db:"srs_level"`
	CorrectCount int       `json:"correct_count" db:"correct_count"`
	WrongCount   int       `json:"wrong_count"   db:"wrong_count"`
	NextReview   time.Time `json:"next_review"   db:"next_review"`
	LastReviewed time.Time `json:"last_reviewed" db:"last_reviewed"`
	Level        int       `json:"level"         db:"level"`
	IsDifficult  bool      `json:"is_difficult"  db:"is_difficult"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}

// NewWord creates a new Word in its initial scheduling state: level 0,
// zero counters, immediately due for review.
func NewWord(courseID uuid.UUID, native, target string, courseLevel int) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:         uuid.New(),
		CourseID:   courseID,
		Native:     native,
		Target:     target,
		SRSLevel:   MinWordLevel,
		NextReview: now,
		Level:      courseLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// MasteryBand returns the display band derived from the word's SRS level.
func (w *Word) MasteryBand() MasteryBand {
	return MasteryBandForLevel(w.SRSLevel)
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyWordID
	}

	if w.CourseID == uuid.Nil {
		return ErrEmptyWordCourseID
	}

	if w.Native == "" {
		return ErrEmptyWordNative
	}

	if w.Target == "" {
		return ErrEmptyWordTarget
	}

	if w.SRSLevel < MinWordLevel || w.SRSLevel > MaxWordLevel {
		return ErrInvalidWordLevel
	}

	return nil
}
