package progression

import (
	"maps"
	"slices"

	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
)

// SkillScore holds the running statistics for one checkpoint.
type SkillScore struct {
	Attempts        int     `json:"attempts"`
	Successes       int     `json:"successes"`
	TotalAccuracy   float64 `json:"totalAccuracy"`
	AverageAccuracy float64 `json:"averageAccuracy"`
}

// record returns the score with one more attempt folded in.
func (s SkillScore) record(success bool, accuracy float64) SkillScore {
	s.Attempts++
	if success {
		s.Successes++
	}
	s.TotalAccuracy += accuracy
	s.AverageAccuracy = s.TotalAccuracy / float64(s.Attempts)
	return s
}

// Settings are the learner-support toggles. They are derived from the number
// of completed checkpoints and never set independently.
type Settings struct {
	ShowHints        bool `json:"showHints"`
	AllowRetries     bool `json:"allowRetries"`
	DetailedFeedback bool `json:"detailedFeedback"`
}

// State is the complete learner progression. It is a value: engine
// operations return a new State and leave their input untouched.
type State struct {
	// CompletedCheckpoints holds mastered checkpoints in the order they were
	// mastered. It has set semantics and only grows within a session.
	CompletedCheckpoints []curriculum.Checkpoint              `json:"completedCheckpoints"`
	SkillScores          map[curriculum.Checkpoint]SkillScore `json:"skillScores"`
	AdaptiveSettings     Settings                             `json:"adaptiveSettings"`
}

// IsCompleted reports whether cp has been mastered.
func (s State) IsCompleted(cp curriculum.Checkpoint) bool {
	return slices.Contains(s.CompletedCheckpoints, cp)
}

// CompletedCount returns the number of mastered checkpoints.
func (s State) CompletedCount() int {
	return len(s.CompletedCheckpoints)
}

// Score returns the score for cp, or a zeroed score if it was never attempted.
func (s State) Score(cp curriculum.Checkpoint) SkillScore {
	return s.SkillScores[cp]
}

// Clone returns a deep copy that shares no maps or slices with s.
func (s State) Clone() State {
	out := State{
		CompletedCheckpoints: slices.Clone(s.CompletedCheckpoints),
		SkillScores:          maps.Clone(s.SkillScores),
		AdaptiveSettings:     s.AdaptiveSettings,
	}
	if out.CompletedCheckpoints == nil {
		out.CompletedCheckpoints = []curriculum.Checkpoint{}
	}
	if out.SkillScores == nil {
		out.SkillScores = make(map[curriculum.Checkpoint]SkillScore)
	}
	return out
}

// NewState returns the empty state a learner starts a session with.
func NewState() State {
	return State{
		CompletedCheckpoints: []curriculum.Checkpoint{},
		SkillScores:          make(map[curriculum.Checkpoint]SkillScore),
		AdaptiveSettings:     DeriveSettings(0),
	}
}
