package progression

import (
	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
)

// Engine evaluates learner progress against a fixed set of checkpoint
// criteria. It keeps no learner data and is safe for concurrent use; all
// state is passed in and returned by value.
type Engine struct {
	cfg curriculum.Config
}

// New creates an engine for the given criteria.
func New(cfg curriculum.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the criteria the engine evaluates against.
func (e *Engine) Config() curriculum.Config {
	return e.cfg
}

// Reset returns a fresh state, equivalent to the start of a session.
func (e *Engine) Reset() State {
	return NewState()
}

// Outcome describes the effect of one recorded attempt.
type Outcome struct {
	Checkpoint    curriculum.Checkpoint
	Score         SkillScore // Score after the attempt
	NewlyMastered bool
}

// RecordAttempt folds one attempt into the state and returns the new state.
// Accuracy is expected in [0, 1]; it is not clamped, so callers should
// validate it at the boundary (see ValidateAttempt).
//
// A checkpoint enters CompletedCheckpoints once its average accuracy and
// attempt count meet its criteria, and never leaves it afterwards.
func (e *Engine) RecordAttempt(s State, cp curriculum.Checkpoint, success bool, accuracy float64) (State, Outcome) {
	next := s.Clone()

	score := next.SkillScores[cp].record(success, accuracy)
	next.SkillScores[cp] = score

	out := Outcome{Checkpoint: cp, Score: score}
	if e.meetsCriteria(next, cp, score) {
		next.CompletedCheckpoints = append(next.CompletedCheckpoints, cp)
		next.AdaptiveSettings = DeriveSettings(next.CompletedCount())
		out.NewlyMastered = true
	}
	return next, out
}

func (e *Engine) meetsCriteria(s State, cp curriculum.Checkpoint, score SkillScore) bool {
	if s.IsCompleted(cp) {
		return false
	}
	criteria, ok := e.cfg.Criteria(cp)
	if !ok {
		return false
	}
	return score.AverageAccuracy >= criteria.RequiredAccuracy &&
		score.Attempts >= criteria.MinAttempts
}

// Incomplete returns the configured checkpoints not yet mastered, in
// declaration order.
func (e *Engine) Incomplete(s State) []curriculum.Checkpoint {
	var out []curriculum.Checkpoint
	for _, cp := range e.cfg.Checkpoints() {
		if !s.IsCompleted(cp) {
			out = append(out, cp)
		}
	}
	return out
}

// Recommend picks the next exercise for the learner. Among exercises
// visible at the learner's tier it prefers the first one, in catalog order,
// that trains the first incomplete checkpoint; otherwise it falls back to
// the first visible exercise. It returns false when nothing is visible.
func (e *Engine) Recommend(exercises []content.Exercise, s State) (content.Exercise, bool) {
	eligible := content.FilterExercisesForLevel(exercises, CurrentTier(s))
	if len(eligible) == 0 {
		return content.Exercise{}, false
	}

	if incomplete := e.Incomplete(s); len(incomplete) > 0 {
		target := incomplete[0]
		for _, ex := range eligible {
			if curriculum.TargetsCheckpoint(ex.Type, target) {
				return ex, true
			}
		}
	}
	return eligible[0], true
}
