package srs

import (
	"time"

	"github.com/kioku-app/kioku/internal/domain"
)

// nextClozeLevel determines the new cloze level for a review outcome.
//
// A correct answer moves the sentence up one level, capped at
// domain.MaxClozeLevel. An incorrect answer drops it by
// params.ClozeWrongPenalty levels, floored at domain.MinClozeLevel.
// The named stage is always derived from the level afterwards, so a
// sentence can never skip a band out of order.
func nextClozeLevel(current int, correct bool, params *Params) int {
	var next int
	if correct {
		next = current + 1
	} else {
		next = current - params.ClozeWrongPenalty
	}

	if next > domain.MaxClozeLevel {
		next = domain.MaxClozeLevel
	}
	if next < domain.MinClozeLevel {
		next = domain.MinClozeLevel
	}

	return next
}

// calculateNextCloze builds the post-review cloze record following the
// same immutable update pattern as calculateNextWord. The engine only
// supplies the new state; excluding tree sentences from review pools is
// the session layer's job.
func calculateNextCloze(
	sentence *domain.ClozeSentence,
	correct bool,
	now time.Time,
	params *Params,
) *domain.ClozeSentence {
	next := *sentence

	next.SRSLevel = nextClozeLevel(sentence.SRSLevel, correct, params)
	next.UpdatedAt = now

	if correct {
		next.CorrectCount++
	} else {
		next.WrongCount++
	}

	return &next
}
