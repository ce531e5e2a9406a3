package practice

import (
	"github.com/pienaaranker/storypoints-sub000/internal/coach"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
)

// hintTickMsg polls the coach for a pending hint.
type hintTickMsg struct{}

// recordedMsg carries the result of recording an attempt.
type recordedMsg struct {
	accuracy float64
	outcomes []progression.Outcome
	err      error
}

// feedbackMsg carries post-attempt feedback for the recorded attempt
// numbered attempt.
type feedbackMsg struct {
	attempt  int
	feedback coach.Feedback
	err      error
}

type nextExerciseMsg struct{}

type retryMsg struct{}
