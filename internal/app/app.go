package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/pienaaranker/storypoints-sub000/internal/coach"
	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/learner"
	"github.com/pienaaranker/storypoints-sub000/internal/router"
	"github.com/pienaaranker/storypoints-sub000/internal/screens/home"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/layout"
)

// Options holds the dependencies of the TUI. Coach may be nil.
type Options struct {
	Profile *learner.Profile
	Catalog *content.Catalog
	Coach   *coach.Service
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	profile *learner.Profile
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	return AppModel{
		router:  router.New(home.New(ctx, opts.Profile, opts.Catalog, opts.Coach)),
		profile: opts.Profile,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	sum := m.profile.Summary()
	header := layout.RenderHeader(title, layout.Status{
		Learner:   m.profile.Name(),
		Tier:      sum.CurrentTier.Label(),
		Completed: sum.CompletedCount,
		Total:     sum.TotalCheckpoints,
	}, m.width)

	footer := layout.RenderFooter(m.keyHints(active), m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) keyHints(active router.Screen) []layout.KeyHint {
	if p, ok := active.(router.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Profile == nil || opts.Catalog == nil {
		return fmt.Errorf("app: profile and catalog are required")
	}
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	if opts.Coach != nil {
		opts.Coach.Wait()
	}
	return nil
}
