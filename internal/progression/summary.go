package progression

import (
	"math"

	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
)

// Summary is a snapshot of overall progress for display.
type Summary struct {
	CurrentTier        curriculum.Tier       `json:"currentTier"`
	CompletedCount     int                   `json:"completedCount"`
	TotalCheckpoints   int                   `json:"totalCheckpoints"`
	ProgressPercentage int                   `json:"progressPercentage"`
	NextCheckpoint     curriculum.Checkpoint `json:"nextCheckpoint,omitempty"` // Empty when all are completed
	AdaptiveSettings   Settings              `json:"adaptiveSettings"`
}

// HasNext reports whether any checkpoint remains to be mastered.
func (s Summary) HasNext() bool {
	return s.NextCheckpoint != ""
}

// Summary reports overall progress for a state.
func (e *Engine) Summary(s State) Summary {
	total := e.cfg.Len()
	completed := s.CompletedCount()

	sum := Summary{
		CurrentTier:      CurrentTier(s),
		CompletedCount:   completed,
		TotalCheckpoints: total,
		AdaptiveSettings: s.AdaptiveSettings,
	}
	if total > 0 {
		sum.ProgressPercentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	if incomplete := e.Incomplete(s); len(incomplete) > 0 {
		sum.NextCheckpoint = incomplete[0]
	}
	return sum
}

// CheckpointAssessment merges a checkpoint's criteria with the learner's score.
type CheckpointAssessment struct {
	curriculum.Criteria
	SkillScore

	IsCompleted bool    `json:"isCompleted"`
	Progress    float64 `json:"progress"`  // min(attempts/minAttempts, 1)
	NeedsWork   bool    `json:"needsWork"` // Below target after enough attempts
}

// Assessment lists every configured checkpoint in declaration order.
type Assessment []CheckpointAssessment

// Lookup returns the entry for cp.
func (a Assessment) Lookup(cp curriculum.Checkpoint) (CheckpointAssessment, bool) {
	for _, ca := range a {
		if ca.Checkpoint == cp {
			return ca, true
		}
	}
	return CheckpointAssessment{}, false
}

// Assessment reports per-checkpoint progress for a state. Checkpoints never
// attempted get a zeroed score.
func (e *Engine) Assessment(s State) Assessment {
	criteria := e.cfg.All()
	out := make(Assessment, 0, len(criteria))
	for _, c := range criteria {
		score := s.Score(c.Checkpoint)
		out = append(out, CheckpointAssessment{
			Criteria:    c,
			SkillScore:  score,
			IsCompleted: s.IsCompleted(c.Checkpoint),
			Progress:    math.Min(float64(score.Attempts)/float64(c.MinAttempts), 1),
			NeedsWork:   score.AverageAccuracy < c.RequiredAccuracy && score.Attempts >= needsWorkMinAttempts,
		})
	}
	return out
}
