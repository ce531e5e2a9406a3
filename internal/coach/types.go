// Package coach produces LLM-backed hints and feedback for practice
// exercises. Both are gated by the learner's adaptive settings.
package coach

import (
	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
)

// Hint is a short nudge for one exercise.
type Hint struct {
	ExerciseID string
	Checkpoint curriculum.Checkpoint
	Text       string
	Focus      string
}

// HintInput holds the context needed to generate a hint.
type HintInput struct {
	Exercise   content.Exercise
	Stories    []content.Item
	Checkpoint curriculum.Checkpoint
	Name       string // Display name of Checkpoint
	Tier       curriculum.Tier
	Score      progression.SkillScore
}

// NewHintInput builds the hint context for ex. The hint focuses on the first
// target the learner has not yet mastered, else the first target.
func NewHintInput(state progression.State, cfg curriculum.Config, ex content.Exercise, stories []content.Item) HintInput {
	targets := ex.Targets()
	var cp curriculum.Checkpoint
	if len(targets) > 0 {
		cp = targets[0]
	}
	for _, t := range targets {
		if !state.IsCompleted(t) {
			cp = t
			break
		}
	}
	return HintInput{
		Exercise:   ex,
		Stories:    stories,
		Checkpoint: cp,
		Name:       cfg.Name(cp),
		Tier:       progression.CurrentTier(state),
		Score:      state.Score(cp),
	}
}

// FeedbackInput describes a finished attempt.
type FeedbackInput struct {
	Exercise content.Exercise
	Stories  []content.Item
	Accuracy float64
	Success  bool
	Outcomes []progression.Outcome
}

// Feedback is shown after an attempt. Detail and Tips are only set when
// detailed feedback is enabled and the provider answered.
type Feedback struct {
	Summary string
	Detail  string
	Tips    []string
}

// Detailed reports whether the feedback carries an explanation.
func (f Feedback) Detailed() bool {
	return f.Detail != ""
}
