// Package practice is the exercise loop: show the recommended exercise,
// take the learner's accuracy, record it and recommend again.
package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pienaaranker/storypoints-sub000/internal/coach"
	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/learner"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
	"github.com/pienaaranker/storypoints-sub000/internal/router"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/components"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/layout"
)

const (
	hintPollInterval = 200 * time.Millisecond
	maxHintPolls     = 150 // 30s
)

type phase int

const (
	phaseEstimate phase = iota
	phaseResult
	phaseEmpty
)

// Screen runs practice exercises for one learner.
type Screen struct {
	ctx     context.Context
	profile *learner.Profile
	catalog *content.Catalog
	coach   *coach.Service

	phase    phase
	exercise content.Exercise
	stories  []content.Item
	attempts int // Attempts on the current exercise

	input    components.TextInput
	inputErr string
	saving   bool
	err      error

	hint        *coach.Hint
	hintPending bool
	hintPolls   int

	accuracy        float64
	outcomes        []progression.Outcome
	recorded        int // Attempts recorded on this screen, never reset
	feedback        coach.Feedback
	feedbackErr     error
	feedbackPending bool
	menu            components.Menu
}

var _ router.Screen = (*Screen)(nil)

// New creates the practice screen and picks the first exercise. coachSvc
// may be nil.
func New(ctx context.Context, profile *learner.Profile, catalog *content.Catalog, coachSvc *coach.Service) *Screen {
	if coachSvc == nil {
		coachSvc = coach.NewService(nil, coach.DefaultConfig(), nil)
	}
	s := &Screen{
		ctx:     ctx,
		profile: profile,
		catalog: catalog,
		coach:   coachSvc,
	}
	s.load()
	return s
}

// load recommends the next exercise and resets the per-exercise state.
func (s *Screen) load() {
	ex, ok := s.profile.Recommend(s.catalog.Exercises)
	if !ok {
		s.phase = phaseEmpty
		return
	}
	s.exercise = ex
	s.stories = s.catalog.StoriesFor(ex)
	s.attempts = 0
	s.hint = nil
	s.startAttempt()
}

// startAttempt puts the screen back into the estimate phase for the current
// exercise.
func (s *Screen) startAttempt() {
	s.phase = phaseEstimate
	s.input = components.NewTextInput("0-100", true, 3)
	s.inputErr = ""
	s.err = nil
	s.saving = false
	s.outcomes = nil
	s.feedback = coach.Feedback{}
	s.feedbackErr = nil
	s.feedbackPending = false
}

// Exercise returns the exercise being practised and whether there is one.
func (s *Screen) Exercise() (content.Exercise, bool) {
	return s.exercise, s.phase != phaseEmpty
}

func (s *Screen) Init() tea.Cmd {
	if s.phase == phaseEmpty {
		return nil
	}
	return tea.Batch(s.input.Init(), s.requestHint())
}

func (s *Screen) requestHint() tea.Cmd {
	if s.hint != nil && s.hint.ExerciseID == s.exercise.ID {
		return nil
	}
	state := s.profile.State()
	input := coach.NewHintInput(state, s.profile.Engine().Config(), s.exercise, s.stories)
	if !s.coach.RequestHint(s.ctx, state.AdaptiveSettings, input) {
		return nil
	}
	s.hintPending = true
	s.hintPolls = 0
	return pollHint()
}

func pollHint() tea.Cmd {
	return tea.Tick(hintPollInterval, func(time.Time) tea.Msg { return hintTickMsg{} })
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case hintTickMsg:
		return s, s.handleHintTick()

	case recordedMsg:
		return s, s.handleRecorded(msg)

	case feedbackMsg:
		if s.phase != phaseResult || msg.attempt != s.recorded {
			return s, nil
		}
		s.feedbackPending = false
		s.feedback = msg.feedback
		s.feedbackErr = msg.err
		return s, nil

	case nextExerciseMsg:
		s.load()
		return s, s.Init()

	case retryMsg:
		s.startAttempt()
		return s, s.Init()

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	if s.phase == phaseEstimate {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleHintTick() tea.Cmd {
	if !s.hintPending {
		return nil
	}
	if s.coach.Err() != nil {
		s.coach.ConsumeHint()
		s.hintPending = false
		return nil
	}
	if h, ok := s.coach.ConsumeHint(); ok {
		s.hintPending = false
		if h.ExerciseID == s.exercise.ID {
			s.hint = h
		}
		return nil
	}
	s.hintPolls++
	if s.hintPolls >= maxHintPolls {
		s.hintPending = false
		return nil
	}
	return pollHint()
}

func (s *Screen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch s.phase {
	case phaseEstimate:
		if msg.String() == "enter" {
			return s.submit()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.inputErr = ""
		return cmd

	case phaseResult:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return cmd

	case phaseEmpty:
		if msg.String() == "enter" {
			return router.Pop()
		}
	}
	return nil
}

func (s *Screen) submit() tea.Cmd {
	if s.saving {
		return nil
	}
	acc, err := s.input.Percent()
	if err != nil {
		s.input.Submit(false)
		s.inputErr = err.Error()
		return nil
	}
	s.input.Submit(true)
	s.saving = true

	ctx, profile, ex := s.ctx, s.profile, s.exercise
	return func() tea.Msg {
		outcomes, err := profile.RecordExercise(ctx, ex, acc)
		return recordedMsg{accuracy: acc, outcomes: outcomes, err: err}
	}
}

func (s *Screen) handleRecorded(msg recordedMsg) tea.Cmd {
	s.saving = false
	if msg.err != nil {
		s.err = msg.err
		return nil
	}

	s.phase = phaseResult
	s.attempts++
	s.recorded++
	s.accuracy = msg.accuracy
	s.outcomes = msg.outcomes

	settings := s.profile.State().AdaptiveSettings
	s.menu = components.NewMenu(s.resultMenu(settings))

	input := coach.FeedbackInput{
		Exercise: s.exercise,
		Stories:  s.stories,
		Accuracy: msg.accuracy,
		Success:  s.profile.Succeeded(msg.accuracy),
		Outcomes: msg.outcomes,
	}
	s.feedbackPending = true
	ctx, svc, attempt := s.ctx, s.coach, s.recorded
	return func() tea.Msg {
		fb, err := svc.Feedback(ctx, settings, input)
		return feedbackMsg{attempt: attempt, feedback: fb, err: err}
	}
}

func (s *Screen) resultMenu(settings progression.Settings) []components.MenuItem {
	items := []components.MenuItem{
		{Label: "Next exercise", Action: func() tea.Cmd {
			return func() tea.Msg { return nextExerciseMsg{} }
		}},
	}
	if settings.AllowRetries {
		items = append(items, components.MenuItem{Label: "Try again", Action: func() tea.Cmd {
			return func() tea.Msg { return retryMsg{} }
		}})
	}
	items = append(items, components.MenuItem{Label: "Back to home", Action: router.Pop})
	return items
}

func (s *Screen) Title() string {
	return "Practice"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseEstimate:
		return []layout.KeyHint{
			{Key: "0-9", Description: "Accuracy"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
}
