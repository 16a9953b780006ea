package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MinClozeLevel and MaxClozeLevel bound the cloze SRS ladder.
const (
	MinClozeLevel = 0
	MaxClozeLevel = 8
)

// ClozeStage is the named mastery stage of a cloze sentence, derived from
// its numeric SRS level. Tree sentences count as fully mastered and are
// excluded from review queues by the session layer.
type ClozeStage string

// Cloze stages in ascending order.
const (
	ClozeStageSeed     ClozeStage = "seed"
	ClozeStageSprout   ClozeStage = "sprout"
	ClozeStageSeedling ClozeStage = "seedling"
	ClozeStagePlant    ClozeStage = "plant"
	ClozeStageTree     ClozeStage = "tree"
)

// clozeStageOrder fixes the total order of stages.
var clozeStageOrder = []ClozeStage{
	ClozeStageSeed,
	ClozeStageSprout,
	ClozeStageSeedling,
	ClozeStagePlant,
	ClozeStageTree,
}

// ClozeTreeFloor is the lowest numeric level that maps to the tree stage.
// Queue queries exclude sentences at or above this level.
const ClozeTreeFloor = 7

// ClozeStageForLevel maps a numeric cloze level to its stage:
// 0 seed, 1-2 sprout, 3-4 seedling, 5-6 plant, 7-8 tree.
// Out-of-range levels are clamped, so the mapping is total and monotonic.
func ClozeStageForLevel(level int) ClozeStage {
	switch {
	case level <= 0:
		return ClozeStageSeed
	case level <= 2:
		return ClozeStageSprout
	case level <= 4:
		return ClozeStageSeedling
	case level < ClozeTreeFloor:
		return ClozeStagePlant
	default:
		return ClozeStageTree
	}
}

// Index returns the stage's position in the total order, or -1 for an
// unknown stage.
func (s ClozeStage) Index() int {
	for i, stage := range clozeStageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Common validation errors for ClozeSentence
var (
	ErrEmptyClozeID       = errors.New("cloze sentence ID cannot be empty")
	ErrEmptyClozeCourseID = errors.New("cloze sentence course ID cannot be empty")
	ErrEmptyClozeTarget   = errors.New("cloze sentence target text cannot be empty")
	ErrEmptyClozeText     = errors.New("cloze text cannot be empty")
	ErrEmptyClozeAnswer   = errors.New("cloze answer cannot be empty")
	ErrInvalidClozeLevel  = errors.New("cloze SRS level out of range")
)

// ClozeSentence is a fill-in-the-blank item. ClozeText and Answer are
// derived once at creation time by blanking a single whitespace-delimited
// token of Target; Answer is the ground truth the grader compares user
// input against (case-insensitive, trimmed).
type ClozeSentence struct {
	ID           uuid.UUID `json:"id"            db:"id"`
	CourseID     uuid.UUID `json:"course_id"     db:"course_id"`
	Native       string    `json:"native"        db:"native"`
	Target       string    `json:"target"        db:"target"`
	ClozeText    string    `json:"cloze_text"    db:"cloze_text"`
	Answer       string    `json:"answer"        db:"answer"`
	SRSLevel     int       `json:"srs_level"     db:"srs_level"`
	CorrectCount int       `json:"correct_count" db:"correct_count"`
	WrongCount   int       `json:"wrong_count"   db:"wrong_count"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}

// NewClozeSentence creates a new ClozeSentence in its initial state (seed,
// zero counters). ClozeText and Answer must already be derived by the
// import layer.
func NewClozeSentence(courseID uuid.UUID, native, target, clozeText, answer string) (*ClozeSentence, error) {
	now := time.Now().UTC()
	sentence := &ClozeSentence{
		ID:        uuid.New(),
		CourseID:  courseID,
		Native:    native,
		Target:    target,
		ClozeText: clozeText,
		Answer:    answer,
		SRSLevel:  MinClozeLevel,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := sentence.Validate(); err != nil {
		return nil, err
	}

	return sentence, nil
}

// Stage returns the named mastery stage derived from the SRS level.
func (s *ClozeSentence) Stage() ClozeStage {
	return ClozeStageForLevel(s.SRSLevel)
}

// Validate checks if the ClozeSentence has valid data.
func (s *ClozeSentence) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyClozeID
	}

	if s.CourseID == uuid.Nil {
		return ErrEmptyClozeCourseID
	}

	if s.Target == "" {
		return ErrEmptyClozeTarget
	}

	if s.ClozeText == "" {
		return ErrEmptyClozeText
	}

	if s.Answer == "" {
		return ErrEmptyClozeAnswer
	}

	if s.SRSLevel < MinClozeLevel || s.SRSLevel > MaxClozeLevel {
		return ErrInvalidClozeLevel
	}

	return nil
}
