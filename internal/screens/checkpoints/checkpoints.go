// Package checkpoints renders the skill assessment.
package checkpoints

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/pienaaranker/storypoints-sub000/internal/learner"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
	"github.com/pienaaranker/storypoints-sub000/internal/router"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/components"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/layout"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/theme"
)

// Screen lists every checkpoint with its criteria and the learner's score.
type Screen struct {
	assessment progression.Assessment
}

var _ router.Screen = (*Screen)(nil)

// New creates the checkpoints screen from the profile's current assessment.
func New(profile *learner.Profile) *Screen {
	return &Screen{assessment: profile.Assessment()}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "q", "enter":
			return s, router.Pop()
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	body := Table(s.assessment, min(width-4, 100))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *Screen) Title() string {
	return "Checkpoints"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Status returns the short status label for an assessment entry.
func Status(ca progression.CheckpointAssessment) string {
	switch {
	case ca.IsCompleted:
		return "mastered"
	case ca.NeedsWork:
		return "needs work"
	case ca.Attempts == 0:
		return "not started"
	default:
		return "in progress"
	}
}

// Rows returns the assessment as plain table rows.
func Rows(a progression.Assessment) [][]string {
	rows := make([][]string, 0, len(a))
	for _, ca := range a {
		rows = append(rows, []string{
			ca.Name,
			fmt.Sprintf("%d/%d", ca.Attempts, ca.MinAttempts),
			fmt.Sprintf("%.0f%%", ca.AverageAccuracy*100),
			fmt.Sprintf("%.0f%%", ca.RequiredAccuracy*100),
			components.TextBar(ca.Progress, 10),
			Status(ca),
		})
	}
	return rows
}

// Headers are the column titles used by Rows.
var Headers = []string{"Checkpoint", "Attempts", "Average", "Target", "Progress", "Status"}

// Table renders the assessment as a lipgloss table.
func Table(a progression.Assessment, width int) string {
	rows := Rows(a)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(Headers...).
		Rows(rows...).
		Width(width).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Foreground(theme.TextDim).Bold(true)
			}
			if col == len(Headers)-1 {
				switch rows[row][col] {
				case "mastered":
					return style.Foreground(theme.Success)
				case "needs work":
					return style.Foreground(theme.Error)
				}
			}
			return style.Foreground(theme.Text)
		})
	return strings.TrimRight(t.Render(), "\n")
}
