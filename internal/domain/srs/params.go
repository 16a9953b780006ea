// Package srs implements the three scheduling ladders: the 0-9 word
// level ladder with interval-based due dates, the named-stage cloze
// ladder, and the six-stage character ladder with independent meaning
// and reading sub-scores. All calculations are pure functions of the
// current item state and the correctness signal; callers persist the
// returned records.
package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/kioku-app/kioku/internal/domain"
)

// Parameter validation errors
var (
	ErrIntervalCount      = errors.New("word interval table must cover every level")
	ErrNegativeInterval   = errors.New("review intervals cannot be negative")
	ErrIntervalNotOrdered = errors.New("review intervals must be non-decreasing")
	ErrInvalidPenalty     = errors.New("wrong-answer penalties must be at least 1")
	ErrInvalidDemotion    = errors.New("demotion table entries cannot be negative")
)

// Params defines all configurable parameters for the scheduling ladders.
type Params struct {
	// WordIntervals maps each word level to the delay before the next
	// review. Index 0 is the same-session retry delay for level 0.
	WordIntervals []time.Duration

	// WordWrongPenalty is the number of levels a word loses on an
	// incorrect answer, floored at level 0.
	WordWrongPenalty int

	// ClozeWrongPenalty is the number of levels a cloze sentence loses
	// on an incorrect answer, floored at level 0.
	ClozeWrongPenalty int

	// CharacterDemotion maps each reviewable stage to the number of
	// stages lost when any sub-answer is wrong. Demotion never goes
	// below apprentice; locked is only reachable through the initial
	// state and burned is terminal.
	CharacterDemotion map[domain.CharacterStage]int
}

// ParamsConfig allows overriding selected defaults when constructing Params.
type ParamsConfig struct {
	WordWrongPenalty  int
	ClozeWrongPenalty int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		// Level 0 repeats in the same session; the tail stretches out
		// to months once a word is mastered.
		WordIntervals: []time.Duration{
			0,                    // level 0: immediately
			4 * time.Hour,        // level 1
			8 * time.Hour,        // level 2
			24 * time.Hour,       // level 3
			2 * 24 * time.Hour,   // level 4
			4 * 24 * time.Hour,   // level 5
			7 * 24 * time.Hour,   // level 6
			14 * 24 * time.Hour,  // level 7
			30 * 24 * time.Hour,  // level 8
			120 * 24 * time.Hour, // level 9
		},

		WordWrongPenalty:  2,
		ClozeWrongPenalty: 1,

		// Higher stages fall further, mirroring the WaniKani demotion
		// rules. Apprentice can only stay at apprentice.
		CharacterDemotion: map[domain.CharacterStage]int{
			domain.CharacterStageApprentice:  0,
			domain.CharacterStageGuru:        1,
			domain.CharacterStageMaster:      2,
			domain.CharacterStageEnlightened: 2,
		},
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued config fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.WordWrongPenalty > 0 {
		params.WordWrongPenalty = config.WordWrongPenalty
	}
	if config.ClozeWrongPenalty > 0 {
		params.ClozeWrongPenalty = config.ClozeWrongPenalty
	}

	return params
}

// Validate checks that the parameter set is internally consistent.
func (p *Params) Validate() error {
	if len(p.WordIntervals) != domain.MaxWordLevel+1 {
		return fmt.Errorf("%w: got %d entries, need %d",
			ErrIntervalCount, len(p.WordIntervals), domain.MaxWordLevel+1)
	}

	for i, interval := range p.WordIntervals {
		if interval < 0 {
			return fmt.Errorf("%w: level %d", ErrNegativeInterval, i)
		}
		if i > 0 && interval < p.WordIntervals[i-1] {
			return fmt.Errorf("%w: level %d shorter than level %d",
				ErrIntervalNotOrdered, i, i-1)
		}
	}

	if p.WordWrongPenalty < 1 {
		return fmt.Errorf("%w: word penalty %d", ErrInvalidPenalty, p.WordWrongPenalty)
	}
	if p.ClozeWrongPenalty < 1 {
		return fmt.Errorf("%w: cloze penalty %d", ErrInvalidPenalty, p.ClozeWrongPenalty)
	}

	for stage, drop := range p.CharacterDemotion {
		if drop < 0 {
			return fmt.Errorf("%w: stage %s", ErrInvalidDemotion, stage)
		}
	}

	return nil
}
