package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MinCharacterLevel and MaxCharacterLevel bound the course level a
// character belongs to (the unlock curriculum runs 1 through 60).
const (
	MinCharacterLevel = 1
	MaxCharacterLevel = 60
)

// CharacterStage is a stage on the six-step character ladder. Locked is
// the pre-study state: a locked character is never presentable for review
// and only an explicit unlock moves it to apprentice. Burned is terminal.
type CharacterStage string

// Character stages in ascending order.
const (
	CharacterStageLocked      CharacterStage = "locked"
	CharacterStageApprentice  CharacterStage = "apprentice"
	CharacterStageGuru        CharacterStage = "guru"
	CharacterStageMaster      CharacterStage = "master"
	CharacterStageEnlightened CharacterStage = "enlightened"
	CharacterStageBurned      CharacterStage = "burned"
)

// characterStageOrder fixes the total order of stages.
var characterStageOrder = []CharacterStage{
	CharacterStageLocked,
	CharacterStageApprentice,
	CharacterStageGuru,
	CharacterStageMaster,
	CharacterStageEnlightened,
	CharacterStageBurned,
}

// Index returns the stage's position in the total order, or -1 for an
// unknown stage.
func (s CharacterStage) Index() int {
	for i, stage := range characterStageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether the stage is a known value.
func (s CharacterStage) IsValid() bool {
	return s.Index() >= 0
}

// CharacterStageForIndex returns the stage at the given position in the
// total order, clamping out-of-range indexes to the nearest end.
func CharacterStageForIndex(index int) CharacterStage {
	if index < 0 {
		index = 0
	}
	if index >= len(characterStageOrder) {
		index = len(characterStageOrder) - 1
	}
	return characterStageOrder[index]
}

// Common validation errors for Character
var (
	ErrEmptyCharacterID       = errors.New("character ID cannot be empty")
	ErrEmptyCharacterCourseID = errors.New("character course ID cannot be empty")
	ErrEmptyCharacterGlyph    = errors.New("character glyph cannot be empty")
	ErrEmptyCharacterMeaning  = errors.New("character meaning cannot be empty")
	ErrInvalidCharacterLevel  = errors.New("character level out of range")
	ErrInvalidCharacterStage  = errors.New("invalid character stage")
)

// Character is a logographic item (kanji, hanzi) scheduled on the
// six-stage ladder with independent meaning and reading sub-scores.
// The per-axis counters never reset; the aggregate counters count a
// review as correct only when both axes pass.
type Character struct {
	ID             uuid.UUID      `json:"id"              db:"id"`
	CourseID       uuid.UUID      `json:"course_id"       db:"course_id"`
	Glyph          string         `json:"glyph"           db:"glyph"`
	Meaning        string         `json:"meaning"         db:"meaning"`
	Pronunciation  string         `json:"pronunciation"   db:"pronunciation"`
	Level          int            `json:"level"           db:"level"`
	Stage          CharacterStage `json:"stage"           db:"stage"`
	CorrectCount   int            `json:"correct_count"   db:"correct_count"`
	WrongCount     int            `json:"wrong_count"     db:"wrong_count"`
	MeaningCorrect int            `json:"meaning_correct" db:"meaning_correct"`
	MeaningWrong   int            `json:"meaning_wrong"   db:"meaning_wrong"`
	ReadingCorrect int            `json:"reading_correct" db:"reading_correct"`
	ReadingWrong   int            `json:"reading_wrong"   db:"reading_wrong"`
	UnlockedAt     *time.Time     `json:"unlocked_at"     db:"unlocked_at"`
	BurnedAt       *time.Time     `json:"burned_at"       db:"burned_at"`
	CreatedAt      time.Time      `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"      db:"updated_at"`
}

// NewCharacter creates a new Character in its initial state: locked, zero
// counters. Pronunciation may be empty for languages without a separate
// reading axis.
func NewCharacter(courseID uuid.UUID, glyph, meaning, pronunciation string, level int) (*Character, error) {
	now := time.Now().UTC()
	character := &Character{
		ID:            uuid.New(),
		CourseID:      courseID,
		Glyph:         glyph,
		Meaning:       meaning,
		Pronunciation: pronunciation,
		Level:         level,
		Stage:         CharacterStageLocked,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := character.Validate(); err != nil {
		return nil, err
	}

	return character, nil
}

// Validate checks if the Character has valid data.
func (c *Character) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCharacterID
	}

	if c.CourseID == uuid.Nil {
		return ErrEmptyCharacterCourseID
	}

	if c.Glyph == "" {
		return ErrEmptyCharacterGlyph
	}

	if c.Meaning == "" {
		return ErrEmptyCharacterMeaning
	}

	if c.Level < MinCharacterLevel || c.Level > MaxCharacterLevel {
		return ErrInvalidCharacterLevel
	}

	if !c.Stage.IsValid() {
		return ErrInvalidCharacterStage
	}

	return nil
}
