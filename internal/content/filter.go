package content

import "github.com/pienaaranker/storypoints-sub000/internal/curriculum"

// Visible reports whether content of tier itemTier is shown to a learner at
// tier current: their own tier and one stretch tier above are visible.
func Visible(itemTier, current curriculum.Tier) bool {
	return itemTier <= current.Stretch()
}

// FilterForLevel returns the stories visible at tier, in their original order.
func FilterForLevel(items []Item, tier curriculum.Tier) []Item {
	return filterByTier(items, tier, Classify)
}

// FilterExercisesForLevel returns the exercises visible at tier, in their
// original order.
func FilterExercisesForLevel(exercises []Exercise, tier curriculum.Tier) []Exercise {
	return filterByTier(exercises, tier, ClassifyExercise)
}

func filterByTier[T any](items []T, tier curriculum.Tier, classify func(T) curriculum.Tier) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Visible(classify(it), tier) {
			out = append(out, it)
		}
	}
	return out
}
