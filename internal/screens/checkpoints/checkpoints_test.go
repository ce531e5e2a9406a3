package checkpoints

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
	"github.com/pienaaranker/storypoints-sub000/internal/learner"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
	"github.com/pienaaranker/storypoints-sub000/internal/router"
)

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

func record(t *testing.T, p *learner.Profile, cp curriculum.Checkpoint, acc float64, n int) {
	t.Helper()
	for range n {
		if _, err := p.Record(context.Background(), "", progression.Attempt{Checkpoint: cp, Success: acc >= 0.7, Accuracy: acc}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
}

func TestRows(t *testing.T) {
	p := testProfile(t)
	record(t, p, curriculum.BasicSizing, 0.9, 5)
	record(t, p, curriculum.RelativeSizing, 0.4, 3)
	record(t, p, curriculum.ComplexityFactors, 0.9, 1)

	rows := Rows(p.Assessment())
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}

	tests := []struct {
		row      int
		name     string
		attempts string
		status   string
	}{
		{0, "Basic Sizing", "5/5", "mastered"},
		{1, "Relative Sizing", "3/4", "needs work"},
		{2, "Complexity Factors", "1/4", "in progress"},
		{5, "Team Estimation", "0/3", "not started"},
	}
	for _, tt := range tests {
		r := rows[tt.row]
		if r[0] != tt.name || r[1] != tt.attempts || r[5] != tt.status {
			t.Errorf("row %d = %v, want %s %s %s", tt.row, r, tt.name, tt.attempts, tt.status)
		}
	}
	if rows[0][2] != "90%" || rows[0][3] != "80%" {
		t.Errorf("accuracy columns = %v", rows[0][2:4])
	}
}

func TestScreen_View(t *testing.T) {
	s := New(testProfile(t))
	if s.Title() != "Checkpoints" {
		t.Errorf("Title = %q", s.Title())
	}
	view := s.View(100, 30)
	for _, want := range []string{"Checkpoint", "Basic Sizing", "Team Estimation", "not started"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestScreen_EnterGoesBack(t *testing.T) {
	s := New(testProfile(t))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
