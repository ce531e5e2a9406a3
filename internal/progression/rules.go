package progression

import "github.com/pienaaranker/storypoints-sub000/internal/curriculum"

// tierThresholds maps a minimum number of completed checkpoints to a tier.
// Entries are in descending order of MinCompleted; the first match wins.
var tierThresholds = []struct {
	MinCompleted int
	Tier         curriculum.Tier
}{
	{MinCompleted: 4, Tier: curriculum.TierExpert},
	{MinCompleted: 3, Tier: curriculum.TierAdvanced},
	{MinCompleted: 1, Tier: curriculum.TierIntermediate},
	{MinCompleted: 0, Tier: curriculum.TierFoundation},
}

// supportThresholds holds the completed-checkpoint counts at which each
// support setting switches off.
var supportThresholds = struct {
	Hints            int
	Retries          int
	DetailedFeedback int
}{
	Hints:            2,
	Retries:          3,
	DetailedFeedback: 4,
}

// needsWorkMinAttempts is the attempt count after which a checkpoint below
// its accuracy target is flagged as needing work.
const needsWorkMinAttempts = 3

// TierForCount returns the tier reached with n completed checkpoints.
func TierForCount(n int) curriculum.Tier {
	for _, th := range tierThresholds {
		if n >= th.MinCompleted {
			return th.Tier
		}
	}
	return curriculum.TierFoundation
}

// CurrentTier returns the learner's tier. It depends only on how many
// checkpoints are completed.
func CurrentTier(s State) curriculum.Tier {
	return TierForCount(s.CompletedCount())
}

// DeriveSettings returns the support settings for n completed checkpoints.
func DeriveSettings(n int) Settings {
	return Settings{
		ShowHints:        n < supportThresholds.Hints,
		AllowRetries:     n < supportThresholds.Retries,
		DetailedFeedback: n < supportThresholds.DetailedFeedback,
	}
}
