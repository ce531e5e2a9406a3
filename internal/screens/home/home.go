package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pienaaranker/storypoints-sub000/internal/coach"
	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/learner"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
	"github.com/pienaaranker/storypoints-sub000/internal/router"
	"github.com/pienaaranker/storypoints-sub000/internal/screens/checkpoints"
	"github.com/pienaaranker/storypoints-sub000/internal/screens/practice"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/components"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/layout"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/theme"
)

// HomeScreen is the dashboard: tier, overall progress and the main menu.
type HomeScreen struct {
	profile *learner.Profile
	engine  *progression.Engine
	menu    components.Menu
	summary progression.Summary
}

var _ router.Screen = (*HomeScreen)(nil)

// New creates the home screen. coachSvc may be nil.
func New(ctx context.Context, profile *learner.Profile, catalog *content.Catalog, coachSvc *coach.Service) *HomeScreen {
	h := &HomeScreen{profile: profile, engine: profile.Engine()}

	items := []components.MenuItem{
		{Label: "Practice", Action: func() tea.Cmd {
			return router.Push(practice.New(ctx, profile, catalog, coachSvc))
		}},
		{Label: "Checkpoints", Action: func() tea.Cmd {
			return router.Push(checkpoints.New(profile))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

func (h *HomeScreen) refresh() {
	h.summary = h.profile.Summary()
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if _, ok := msg.(router.ResumedMsg); ok {
		h.refresh()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-4, 64)
	s := h.summary

	var sections []string
	sections = append(sections, theme.Title.Render("Story Point Estimation Trainer"))

	tier := theme.Badge.Render(s.CurrentTier.Label())
	sections = append(sections, fmt.Sprintf("%s  %s", tier,
		theme.Subtitle.Render(fmt.Sprintf("%d of %d checkpoints mastered", s.CompletedCount, s.TotalCheckpoints))))

	sections = append(sections,
		components.NewProgressBar("Progress", float64(s.ProgressPercentage)/100, true, cw).View())

	if s.HasNext() {
		sections = append(sections, theme.Label.Render("Next up: ")+
			theme.Body.Render(h.engine.Config().Name(s.NextCheckpoint)))
	} else {
		sections = append(sections, theme.Correct.Render("All checkpoints mastered!"))
	}

	sections = append(sections, renderSettings(s.AdaptiveSettings))
	sections = append(sections, h.menu.View())

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Width(cw+4).Render(content))
}

func renderSettings(st progression.Settings) string {
	flag := func(label string, on bool) string {
		if on {
			return theme.Correct.Render("● ") + theme.Body.Render(label)
		}
		return theme.Subtitle.Render("○ " + label)
	}
	return strings.Join([]string{
		flag("Hints", st.ShowHints),
		flag("Retries", st.AllowRetries),
		flag("Detailed feedback", st.DetailedFeedback),
	}, "   ")
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
