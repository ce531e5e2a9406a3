package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := min(width-4, 80)

	var body string
	switch s.phase {
	case phaseEmpty:
		body = theme.Body.Render("No exercises are available at your level.") + "\n\n" +
			theme.Hint.Render("Press Enter or Esc to go back.")
	case phaseEstimate:
		body = s.viewEstimate(cw)
	case phaseResult:
		body = s.viewResult(cw)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(body))
}

func (s *Screen) viewHeader() string {
	tier := content.ClassifyExercise(s.exercise)
	header := theme.Title.Render(s.exercise.Title) + "  " + theme.Badge.Render(tier.Label())

	names := make([]string, 0, len(s.exercise.Targets()))
	cfg := s.profile.Engine().Config()
	for _, cp := range s.exercise.Targets() {
		names = append(names, cfg.Name(cp))
	}
	header += "\n" + theme.Subtitle.Render("Trains: "+strings.Join(names, ", "))
	if s.attempts > 0 {
		header += theme.Subtitle.Render(fmt.Sprintf("  ·  attempt %d", s.attempts+1))
	}
	if s.exercise.Instructions != "" {
		header += "\n\n" + theme.Body.Render(s.exercise.Instructions)
	}
	return header
}

func (s *Screen) viewEstimate(width int) string {
	sections := []string{s.viewHeader(), s.viewStories(width, false)}

	switch {
	case s.hint != nil:
		sections = append(sections, theme.CoachCard.Width(width).Render(
			theme.Label.Render("Coach")+"  "+theme.Hint.Render(s.hint.Focus)+"\n"+theme.Body.Render(s.hint.Text)))
	case s.hintPending:
		sections = append(sections, theme.Hint.Render("The coach is preparing a hint..."))
	}

	prompt := theme.Label.Render("How accurate were your estimates? ") + s.input.View() + theme.Subtitle.Render(" %")
	if s.inputErr != "" {
		prompt += "\n" + theme.Incorrect.Render(s.inputErr)
	}
	if s.saving {
		prompt += "\n" + theme.Hint.Render("Saving...")
	}
	if s.err != nil {
		prompt += "\n" + theme.Incorrect.Render("Could not record attempt: "+s.err.Error())
	}
	sections = append(sections, prompt)

	return strings.Join(sections, "\n\n")
}

func (s *Screen) viewStories(width int, reveal bool) string {
	if len(s.stories) == 0 {
		return ""
	}
	cards := make([]string, 0, len(s.stories))
	for _, item := range s.stories {
		var b strings.Builder
		b.WriteString(theme.Body.Bold(true).Render(item.Title))
		if reveal && item.Points > 0 {
			b.WriteString("  " + theme.Correct.Render(fmt.Sprintf("%d pts", item.Points)))
		}
		if item.Description != "" {
			b.WriteString("\n" + theme.Body.Render(item.Description))
		}
		c := item.Complexity
		b.WriteString("\n" + theme.Subtitle.Render(fmt.Sprintf("technical %s · business %s · uncertainty %s",
			c.Technical.Normalize(), c.Business.Normalize(), c.Uncertainty.Normalize())))
		if item.RequiresBreakdown {
			b.WriteString("\n" + theme.Hint.Render("Consider splitting this story."))
		}
		if item.Ambiguous() {
			b.WriteString("\n" + theme.Subtitle.Render("Team estimates: "+item.TeamEstimates()))
		}
		cards = append(cards, theme.Card.Width(width).Render(b.String()))
	}
	return strings.Join(cards, "\n")
}

func (s *Screen) viewResult(width int) string {
	sections := []string{s.viewHeader()}

	verdict := theme.Incorrect.Render(fmt.Sprintf("%.0f%% accuracy", s.accuracy*100))
	if s.profile.Succeeded(s.accuracy) {
		verdict = theme.Correct.Render(fmt.Sprintf("%.0f%% accuracy ✓", s.accuracy*100))
	}
	sections = append(sections, verdict, s.viewStories(width, true))

	cfg := s.profile.Engine().Config()
	var lines []string
	for _, o := range s.outcomes {
		line := fmt.Sprintf("%s: %d attempts, average %.0f%%",
			cfg.Name(o.Checkpoint), o.Score.Attempts, o.Score.AverageAccuracy*100)
		if o.NewlyMastered {
			line = theme.Correct.Render(line + "  Mastered!")
		} else {
			line = theme.Body.Render(line)
		}
		lines = append(lines, line)
	}
	sections = append(sections, strings.Join(lines, "\n"))

	fb := s.feedback
	switch {
	case s.feedbackPending:
		sections = append(sections, theme.Hint.Render("Getting feedback..."))
	case fb.Summary != "":
		text := theme.Body.Render(fb.Summary)
		if fb.Detailed() {
			text += "\n\n" + theme.Body.Render(fb.Detail)
			for _, tip := range fb.Tips {
				text += "\n" + theme.Subtitle.Render("• "+tip)
			}
		}
		if s.feedbackErr != nil {
			text += "\n\n" + theme.Hint.Render("Detailed feedback is unavailable right now.")
		}
		sections = append(sections, theme.CoachCard.Width(width).Render(text))
	}

	sections = append(sections, s.menu.View())
	return strings.Join(sections, "\n\n")
}
