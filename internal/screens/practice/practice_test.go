package practice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/pienaaranker/storypoints-sub000/internal/coach"
	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
	"github.com/pienaaranker/storypoints-sub000/internal/learner"
	"github.com/pienaaranker/storypoints-sub000/internal/llm"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
	"github.com/pienaaranker/storypoints-sub000/internal/router"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testProfile(t *testing.T) *learner.Profile {
	t.Helper()
	p, err := learner.Open(context.Background(), learner.Options{
		Learner: "tester",
		Engine:  progression.New(curriculum.DefaultConfig()),
	})
	if err != nil {
		t.Fatalf("open profile: %v", err)
	}
	return p
}

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	cat, err := content.DefaultCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func testScreen(t *testing.T) (*Screen, *learner.Profile) {
	t.Helper()
	p := testProfile(t)
	return New(t.Context(), p, testCatalog(t), nil), p
}

// submit types accuracy, presses Enter and feeds the resulting messages
// back through the screen.
func submit(t *testing.T, s *Screen, accuracy string) {
	t.Helper()
	s.input.Model.SetValue(accuracy)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatalf("expected record command for %q (err %q)", accuracy, s.inputErr)
	}
	_, cmd = s.Update(cmd())
	if cmd != nil {
		s.Update(cmd())
	}
}

func TestScreen_Title(t *testing.T) {
	s, _ := testScreen(t)
	if s.Title() != "Practice" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestScreen_RecommendsForFreshLearner(t *testing.T) {
	s, _ := testScreen(t)
	ex, ok := s.Exercise()
	if !ok {
		t.Fatal("expected an exercise")
	}
	if ex.ID != "shapes-by-size" {
		t.Errorf("exercise = %q, want shapes-by-size", ex.ID)
	}
	if view := s.View(100, 40); !strings.Contains(view, "Sort the shapes") {
		t.Errorf("view missing exercise title:\n%s", view)
	}
}

func TestScreen_RejectsInvalidAccuracy(t *testing.T) {
	s, p := testScreen(t)

	for _, in := range []string{"", "150"} {
		s.input.Model.SetValue(in)
		_, cmd := s.Update(specialKey(tea.KeyEnter))
		if cmd != nil {
			t.Errorf("%q: expected no command", in)
		}
		if s.inputErr == "" {
			t.Errorf("%q: expected an input error", in)
		}
	}
	if got := p.State().Score(curriculum.BasicSizing).Attempts; got != 0 {
		t.Fatalf("attempts = %d, want 0", got)
	}
}

func TestScreen_RecordsAttempt(t *testing.T) {
	s, p := testScreen(t)

	submit(t, s, "90")

	if s.phase != phaseResult {
		t.Fatalf("phase = %v, want result", s.phase)
	}
	score := p.State().Score(curriculum.BasicSizing)
	if score.Attempts != 1 || score.Successes != 1 {
		t.Fatalf("score = %+v", score)
	}
	if s.feedback.Summary != "Good estimate: 90% accuracy." {
		t.Errorf("feedback = %q", s.feedback.Summary)
	}
	if s.feedback.Detailed() {
		t.Error("expected summary-only feedback without a provider")
	}

	labels := menuLabels(s)
	if !strings.Contains(labels, "Try again") {
		t.Errorf("expected retry while retries are allowed, menu: %s", labels)
	}
}

func TestScreen_RetryKeepsExercise(t *testing.T) {
	s, p := testScreen(t)
	submit(t, s, "50")

	s.Update(retryMsg{})
	if s.phase != phaseEstimate {
		t.Fatalf("phase = %v, want estimate", s.phase)
	}
	if s.exercise.ID != "shapes-by-size" || s.attempts != 1 {
		t.Fatalf("exercise = %q attempts = %d", s.exercise.ID, s.attempts)
	}

	submit(t, s, "70")
	score := p.State().Score(curriculum.BasicSizing)
	if score.Attempts != 2 || score.Successes != 1 {
		t.Fatalf("score = %+v", score)
	}
}

func TestScreen_IgnoresStaleFeedback(t *testing.T) {
	s, _ := testScreen(t)

	s.input.Model.SetValue("60")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	_, feedbackCmd := s.Update(cmd())
	if feedbackCmd == nil {
		t.Fatal("expected feedback command")
	}
	stale := feedbackCmd()

	s.Update(retryMsg{})
	submit(t, s, "90")
	s.Update(stale)

	if s.feedback.Summary != "Good estimate: 90% accuracy." {
		t.Errorf("feedback = %q, want the latest attempt's", s.feedback.Summary)
	}
}

func TestScreen_ShowsFeedbackError(t *testing.T) {
	s, _ := testScreen(t)
	submit(t, s, "90")

	s.Update(feedbackMsg{
		attempt:  s.recorded,
		feedback: coach.Feedback{Summary: "Good estimate: 90% accuracy."},
		err:      errors.New("provider unavailable"),
	})
	view := s.View(100, 40)
	if !strings.Contains(view, "Detailed feedback is unavailable") {
		t.Errorf("view missing feedback error:\n%s", view)
	}
	if !strings.Contains(view, "Good estimate") {
		t.Errorf("view missing summary:\n%s", view)
	}
}

func TestScreen_ReRecommendsAfterMastery(t *testing.T) {
	s, p := testScreen(t)

	for range 5 {
		submit(t, s, "90")
		s.Update(nextExerciseMsg{})
	}

	if !p.State().IsCompleted(curriculum.BasicSizing) {
		t.Fatal("expected basic sizing mastered")
	}
	ex, _ := s.Exercise()
	if ex.ID != "reference-story" {
		t.Errorf("next exercise = %q, want reference-story", ex.ID)
	}
	if len(s.stories) != 3 {
		t.Errorf("stories = %d, want 3", len(s.stories))
	}
}

func TestScreen_NoRetryWhenRetriesOff(t *testing.T) {
	p := testProfile(t)
	ctx := context.Background()
	for _, cp := range []curriculum.Checkpoint{curriculum.BasicSizing, curriculum.RelativeSizing, curriculum.ComplexityFactors} {
		for range 5 {
			if _, err := p.Record(ctx, "", progression.Attempt{Checkpoint: cp, Success: true, Accuracy: 1}); err != nil {
				t.Fatalf("record: %v", err)
			}
		}
	}
	if p.State().AdaptiveSettings.AllowRetries {
		t.Fatal("expected retries off after three checkpoints")
	}

	s := New(t.Context(), p, testCatalog(t), nil)
	submit(t, s, "80")
	if labels := menuLabels(s); strings.Contains(labels, "Try again") {
		t.Errorf("unexpected retry item: %s", labels)
	}
}

func TestScreen_ShowsCoachHint(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"hint":"Think about which shape needs the most paint.","focus":"relative size"}`),
	})
	svc := coach.NewService(mock, coach.DefaultConfig(), nil)
	s := New(t.Context(), testProfile(t), testCatalog(t), svc)

	if s.Init() == nil {
		t.Fatal("expected init commands")
	}
	if !s.hintPending {
		t.Fatal("expected a pending hint for a fresh learner")
	}
	svc.Wait()

	s.Update(hintTickMsg{})
	if s.hint == nil {
		t.Fatal("expected hint after poll")
	}
	if view := s.View(100, 40); !strings.Contains(view, "most paint") {
		t.Errorf("view missing hint:\n%s", view)
	}
}

func TestScreen_EmptyCatalog(t *testing.T) {
	s := New(t.Context(), testProfile(t), &content.Catalog{}, nil)
	if _, ok := s.Exercise(); ok {
		t.Fatal("expected no exercise")
	}
	if s.Init() != nil {
		t.Error("expected no init command")
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func menuLabels(s *Screen) string {
	var labels []string
	for _, item := range s.menu.Items {
		labels = append(labels, item.Label)
	}
	return strings.Join(labels, ", ")
}
