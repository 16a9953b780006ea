package srs

import (
	"time"

	"github.com/kioku-app/kioku/internal/domain"
)

// nextWordLevel determines the new word level for a review outcome.
//
// An easy (correct) answer moves the word up one level, capped at
// domain.MaxWordLevel. A hard (incorrect) answer drops the word by
// params.WordWrongPenalty levels, floored at domain.MinWordLevel.
func nextWordLevel(current int, difficulty domain.ReviewDifficulty, params *Params) int {
	var next int
	if difficulty == domain.ReviewDifficultyEasy {
		next = current + 1
	} else {
		next = current - params.WordWrongPenalty
	}

	if next > domain.MaxWordLevel {
		next = domain.MaxWordLevel
	}
	if next < domain.MinWordLevel {
		next = domain.MinWordLevel
	}

	return next
}

// wordReviewInterval returns the delay before a word at the given level
// comes due again. Out-of-range levels are clamped to the table bounds.
func wordReviewInterval(level int, params *Params) time.Duration {
	if level < 0 {
		level = 0
	}
	if level >= len(params.WordIntervals) {
		level = len(params.WordIntervals) - 1
	}
	return params.WordIntervals[level]
}

// calculateNextWord builds the post-review word record. It follows the
// immutable update pattern: the input is never modified, a new record is
// returned for the caller to persist.
//
// NextReview is always recomputed from the new level, even when the level
// did not change (already at the ceiling or the floor), so a reviewed word
// never stays stuck at a stale due date.
func calculateNextWord(
	word *domain.Word,
	difficulty domain.ReviewDifficulty,
	now time.Time,
	params *Params,
) *domain.Word {
	next := *word

	next.SRSLevel = nextWordLevel(word.SRSLevel, difficulty, params)
	next.NextReview = now.Add(wordReviewInterval(next.SRSLevel, params))
	next.LastReviewed = now
	next.UpdatedAt = now

	if difficulty == domain.ReviewDifficultyEasy {
		next.CorrectCount++
	} else {
		next.WrongCount++
	}

	return &next
}
