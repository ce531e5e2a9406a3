package content

import "github.com/pienaaranker/storypoints-sub000/internal/curriculum"

// Classify maps a story's attributes to a difficulty tier. Rules are checked
// from hardest to easiest and the first match wins. Missing attributes count
// as low.
func Classify(item Item) curriculum.Tier {
	technical := item.Complexity.Technical.Normalize()
	business := item.Complexity.Business.Normalize()
	uncertainty := item.Complexity.Uncertainty.Normalize()

	switch {
	case uncertainty == LevelHigh && item.RequiresBreakdown && item.Ambiguous():
		return curriculum.TierExpert
	case item.RequiresBreakdown || technical == LevelHigh || business == LevelHigh:
		return curriculum.TierAdvanced
	case item.Ambiguous() || technical == LevelMedium || business == LevelMedium:
		return curriculum.TierIntermediate
	default:
		return curriculum.TierFoundation
	}
}

// ClassifyExercise returns the tier of an exercise from its type.
func ClassifyExercise(ex Exercise) curriculum.Tier {
	return curriculum.ExerciseTier(ex.Type)
}
