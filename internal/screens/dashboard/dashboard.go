package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sync/errgroup"

	"github.com/ashwin/langmate/internal/api"
	"github.com/ashwin/langmate/internal/export"
	"github.com/ashwin/langmate/internal/langtheme"
	"github.com/ashwin/langmate/internal/progress"
	"github.com/ashwin/langmate/internal/router"
	"github.com/ashwin/langmate/internal/screen"
	"github.com/ashwin/langmate/internal/screens/achievements"
	"github.com/ashwin/langmate/internal/screens/module"
	"github.com/ashwin/langmate/internal/ui/components"
	"github.com/ashwin/langmate/internal/ui/layout"
	"github.com/ashwin/langmate/internal/ui/theme"
)

// Backend is the API surface the dashboard and the screens it opens need.
type Backend interface {
	module.Backend
	achievements.Backend
	Export(ctx context.Context) ([]byte, error)
}

// dataLoadedMsg carries the joined modules+achievements fetch. A failure of
// either half fails the load as a whole; there is no partial success.
type dataLoadedMsg struct {
	Modules      []api.LearningModule
	Achievements []api.Achievement
	Err          error
}

// exportDoneMsg reports the outcome of an export download.
type exportDoneMsg struct {
	Path string
	Err  error
}

// DashboardScreen is the base screen: summary stats plus modules grouped by
// language. It owns the authoritative in-memory copies of modules and
// achievements; child screens receive read-only views.
type DashboardScreen struct {
	backend Backend

	modules      []api.LearningModule
	achievements []api.Achievement

	langFilter string // empty means all languages
	visible    []api.LearningModule
	summary    progress.Summary
	groups     []progress.LanguageGroup
	cursor     int

	loaded  bool
	errMsg  string
	status  string
	spinner components.Spinner
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates the dashboard for the given backend.
func New(backend Backend) *DashboardScreen {
	return &DashboardScreen{
		backend: backend,
		spinner: components.NewSpinner("Loading your progress..."),
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return tea.Batch(s.loadData(), s.spinner.Tick())
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

// loadData fetches modules and achievements concurrently. The two requests
// race independently and are joined; either failure surfaces as one error.
func (s *DashboardScreen) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		g, ctx := errgroup.WithContext(ctx)

		var modules []api.LearningModule
		var achs []api.Achievement

		g.Go(func() error {
			var err error
			modules, err = s.backend.Modules(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			achs, err = s.backend.Achievements(ctx)
			return err
		})

		if err := g.Wait(); err != nil {
			return dataLoadedMsg{Err: err}
		}
		return dataLoadedMsg{Modules: modules, Achievements: achs}
	}
}

func (s *DashboardScreen) exportData() tea.Cmd {
	return func() tea.Msg {
		path, err := export.Download(context.Background(), s.backend, ".", time.Now())
		return exportDoneMsg{Path: path, Err: err}
	}
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open module"},
		{Key: "Tab", Description: "Filter language"},
		{Key: "A", Description: "Achievements"},
		{Key: "E", Description: "Export"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dataLoadedMsg:
		if msg.Err != nil {
			// First failed load blocks the screen; a failed background
			// refresh keeps showing the previous snapshot with a notice.
			if !s.loaded {
				s.errMsg = msg.Err.Error()
			} else {
				s.status = "Refresh failed. Press R to retry"
			}
			return s, nil
		}
		s.loaded = true
		s.errMsg = ""
		s.modules = msg.Modules
		s.achievements = msg.Achievements
		s.recompute()
		return s, nil

	case exportDoneMsg:
		if msg.Err != nil {
			s.status = "Export failed. Press E to retry"
		} else {
			s.status = "Exported to " + msg.Path
		}
		return s, nil

	case router.RefreshDataMsg:
		return s, s.loadData()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.loaded && s.errMsg == "" {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DashboardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		if key == "r" || key == "R" {
			s.errMsg = ""
			s.loaded = false
			return s, tea.Batch(s.loadData(), s.spinner.Tick())
		}
		return s, nil
	}
	if !s.loaded {
		return s, nil
	}

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.visible)-1 {
			s.cursor++
		}
	case "tab":
		s.cycleFilter()
	case "enter":
		if s.cursor >= 0 && s.cursor < len(s.visible) {
			mod := s.visible[s.cursor]
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: module.New(s.backend, mod)}
			}
		}
	case "a", "A":
		achs := append([]api.Achievement(nil), s.achievements...)
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: achievements.New(s.backend, achs)}
		}
	case "e", "E":
		s.status = "Exporting..."
		return s, s.exportData()
	case "r", "R":
		return s, s.loadData()
	}
	return s, nil
}

// cycleFilter steps the language filter through all → each language → all.
func (s *DashboardScreen) cycleFilter() {
	langs := progress.Languages(s.modules)
	if len(langs) == 0 {
		return
	}
	if s.langFilter == "" {
		s.langFilter = langs[0]
	} else {
		next := ""
		for i, l := range langs {
			if l == s.langFilter && i+1 < len(langs) {
				next = langs[i+1]
				break
			}
		}
		s.langFilter = next
	}
	s.recompute()
}

// recompute rebuilds the derived view-model after any data or filter change.
func (s *DashboardScreen) recompute() {
	filtered := progress.FilterByLanguage(s.modules, s.langFilter)
	s.summary = progress.Summarize(filtered)
	s.groups = progress.GroupByLanguage(filtered)

	s.visible = s.visible[:0]
	for _, g := range s.groups {
		s.visible = append(s.visible, g.Modules...)
	}
	if s.cursor >= len(s.visible) {
		s.cursor = len(s.visible) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *DashboardScreen) View(width, height int) string {
	if s.errMsg != "" {
		msg := theme.Incorrect.Render("Failed to load data") + "\n\n" +
			theme.Hint.Render(s.errMsg) + "\n\n" +
			theme.Body.Render("Press R to retry")
		return layout.Centered(msg, width, height)
	}
	if !s.loaded {
		return layout.Centered(s.spinner.View(), width, height)
	}

	var sections []string
	sections = append(sections, s.renderStats(width))
	sections = append(sections, s.renderGroups())

	if s.status != "" {
		sections = append(sections, theme.Hint.Render("  "+s.status))
	}

	return strings.Join(sections, "\n")
}

func (s *DashboardScreen) renderStats(width int) string {
	filterLabel := "all languages"
	if s.langFilter != "" {
		t := langtheme.Resolve(s.langFilter)
		filterLabel = t.Emoji + " " + t.Name
	}

	headline := fmt.Sprintf("%.1f%% overall   %d / %d modules complete   (%s)",
		s.summary.Overall, s.summary.Completed, s.summary.Total, filterLabel)

	bar := components.ProgressBar{
		Percent:     s.summary.Overall / 100,
		ShowPercent: true,
		Width:       width - 8,
	}

	return theme.Card.Width(width - 4).Render(
		theme.Body.Bold(true).Render(headline) + "\n" + bar.View())
}

func (s *DashboardScreen) renderGroups() string {
	if len(s.visible) == 0 {
		return "\n" + theme.Hint.Render("  No modules yet. Is the server seeded?")
	}

	var b strings.Builder
	idx := 0
	for _, g := range s.groups {
		t := langtheme.Resolve(g.Language)
		header := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).
			Render(fmt.Sprintf("  %s %s", t.Emoji, t.Name))
		b.WriteString("\n" + header + "\n")

		for _, m := range g.Modules {
			prefix := "    "
			style := theme.Unselected
			if idx == s.cursor {
				prefix = "  ▸ "
				style = theme.Selected
			}

			bar := components.ProgressBar{
				Percent: m.Progress / 100,
				Width:   24,
				Fill:    t.Secondary,
			}
			done := ""
			if m.Progress >= progress.CompleteThreshold {
				done = theme.Correct.Render(" ✓")
			}

			name := m.Name
			if name == "" {
				name = m.ID
			}
			line := fmt.Sprintf("%s%s %s %5.1f%%%s",
				prefix, padName(name, 36), bar.View(), m.Progress, done)
			b.WriteString(style.Render(line) + "\n")
			idx++
		}
	}
	return b.String()
}

// padName truncates by display width, not bytes, and pads the result to
// exactly width cells so CJK module names keep the progress column aligned.
func padName(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if gap := width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}
