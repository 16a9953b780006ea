package srs

import (
	"time"

	"github.com/kioku-app/kioku/internal/domain"
)

// nextCharacterStage determines the new stage for a character review.
//
// A character advances one stage only when BOTH the meaning and the
// reading answers are correct. Any single wrong sub-answer demotes the
// character by the stage-specific amount in params.CharacterDemotion,
// never below apprentice. Locked and burned characters are rejected
// before this function is reached.
func nextCharacterStage(
	stage domain.CharacterStage,
	meaningCorrect, readingCorrect bool,
	params *Params,
) domain.CharacterStage {
	index := stage.Index()

	if meaningCorrect && readingCorrect {
		return domain.CharacterStageForIndex(index + 1)
	}

	demoted := index - params.CharacterDemotion[stage]
	if demoted < domain.CharacterStageApprentice.Index() {
		demoted = domain.CharacterStageApprentice.Index()
	}
	return domain.CharacterStageForIndex(demoted)
}

// calculateNextCharacter builds the post-review character record.
//
// The per-axis counters move independently of the stage and never reset.
// The aggregate counters treat a review as correct only when both axes
// pass. Reaching burned stamps BurnedAt.
func calculateNextCharacter(
	character *domain.Character,
	meaningCorrect, readingCorrect bool,
	now time.Time,
	params *Params,
) *domain.Character {
	next := *character

	next.Stage = nextCharacterStage(character.Stage, meaningCorrect, readingCorrect, params)
	next.UpdatedAt = now

	if meaningCorrect {
		next.MeaningCorrect++
	} else {
		next.MeaningWrong++
	}
	if readingCorrect {
		next.ReadingCorrect++
	} else {
		next.ReadingWrong++
	}

	if meaningCorrect && readingCorrect {
		next.CorrectCount++
	} else {
		next.WrongCount++
	}

	if next.Stage == domain.CharacterStageBurned && character.Stage != domain.CharacterStageBurned {
		burned := now
		next.BurnedAt = &burned
	}

	return &next
}
