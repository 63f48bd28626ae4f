package module

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ashwin/langmate/internal/api"
	"github.com/ashwin/langmate/internal/langtheme"
	"github.com/ashwin/langmate/internal/router"
	"github.com/ashwin/langmate/internal/screen"
	"github.com/ashwin/langmate/internal/screens/content"
	"github.com/ashwin/langmate/internal/screens/practicerun"
	"github.com/ashwin/langmate/internal/ui/components"
	"github.com/ashwin/langmate/internal/ui/layout"
	"github.com/ashwin/langmate/internal/ui/theme"
)

// Backend is the API surface the module screen and its children need.
type Backend interface {
	content.Backend
	practicerun.Backend
	Modules(ctx context.Context) ([]api.LearningModule, error)
	UpdateProgress(ctx context.Context, moduleID, taskType string) (api.ProgressUpdate, error)
}

// progressUpdatedMsg reports the outcome of a task-completion request.
type progressUpdatedMsg struct {
	Task string
	Err  error
}

// moduleReloadedMsg carries a fresh copy of this screen's module.
type moduleReloadedMsg struct {
	Module api.LearningModule
	Found  bool
}

// ModuleScreen shows one module's five tasks and its practice launcher.
// Opening a task both opens the content viewer and, when the task is not yet
// complete, asks the server to mark it done.
type ModuleScreen struct {
	backend Backend
	module  api.LearningModule
	theme   langtheme.Theme
	cursor  int // 0..len(TaskTypes)-1 are tasks, len(TaskTypes) is practice
	status  string
}

var _ screen.Screen = (*ModuleScreen)(nil)
var _ screen.KeyHintProvider = (*ModuleScreen)(nil)

// New creates a module screen over a snapshot of the module record.
func New(backend Backend, mod api.LearningModule) *ModuleScreen {
	return &ModuleScreen{
		backend: backend,
		module:  mod,
		theme:   langtheme.Resolve(mod.Language),
	}
}

func (s *ModuleScreen) Init() tea.Cmd {
	return nil
}

func (s *ModuleScreen) Title() string {
	return s.module.Name
}

func (s *ModuleScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ModuleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressUpdatedMsg:
		if msg.Err != nil {
			s.status = "Progress update failed. Open the task again to retry"
			return s, nil
		}
		s.status = ""
		// The server recomputed mastery; let every open screen re-fetch.
		return s, func() tea.Msg { return router.RefreshDataMsg{} }

	case moduleReloadedMsg:
		if msg.Found {
			s.module = msg.Module
		}
		return s, nil

	case router.RefreshDataMsg:
		return s, s.reloadModule()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ModuleScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	last := len(api.TaskTypes) // practice entry

	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < last {
			s.cursor++
		}
	case "enter":
		if s.cursor == last {
			return s, s.openPractice()
		}
		return s, s.openTask(api.TaskTypes[s.cursor])
	}
	return s, nil
}

// openTask opens the content viewer for the task's content type and, only if
// the task is still incomplete, requests the progress update alongside.
func (s *ModuleScreen) openTask(task string) tea.Cmd {
	push := func() tea.Msg {
		return router.PushScreenMsg{
			Screen: content.New(s.backend, s.module, api.ContentTypeFor(task)),
		}
	}

	if s.module.Tasks.TaskDone(task) {
		return push
	}

	update := func() tea.Msg {
		_, err := s.backend.UpdateProgress(context.Background(), s.module.ID, task)
		return progressUpdatedMsg{Task: task, Err: err}
	}
	return tea.Batch(push, update)
}

func (s *ModuleScreen) openPractice() tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{
			Screen: practicerun.New(s.backend, s.module.ID, s.theme),
		}
	}
}

// reloadModule re-fetches the module list and picks out this screen's module.
func (s *ModuleScreen) reloadModule() tea.Cmd {
	id := s.module.ID
	return func() tea.Msg {
		modules, err := s.backend.Modules(context.Background())
		if err != nil {
			// A refresh miss keeps the stale snapshot; the dashboard
			// surfaces the failure.
			return moduleReloadedMsg{}
		}
		for _, m := range modules {
			if m.ID == id {
				return moduleReloadedMsg{Module: m, Found: true}
			}
		}
		return moduleReloadedMsg{}
	}
}

func (s *ModuleScreen) View(width, height int) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(s.theme.Primary).Bold(true).
		Render(fmt.Sprintf("%s %s", s.theme.Emoji, s.module.Name))
	b.WriteString(title + "\n\n")

	bar := components.ProgressBar{
		Label:       "Mastery",
		Percent:     s.module.Progress / 100,
		ShowPercent: true,
		Width:       min(width-8, 60),
		Fill:        s.theme.Secondary,
	}
	b.WriteString(bar.View() + "\n\n")

	b.WriteString(theme.Body.Bold(true).Render("Learning tasks") + "\n")
	for i, task := range api.TaskTypes {
		check := "⭕"
		label := api.TaskLabel(task)
		if s.module.Tasks.TaskDone(task) {
			check = "✅"
			label += theme.Hint.Render("  done")
		}

		line := fmt.Sprintf("  %s %s", check, label)
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n")
	practiceLine := "  📝 Start practice quiz"
	if s.cursor == len(api.TaskTypes) {
		b.WriteString(theme.Selected.Render("▸ "+practiceLine) + "\n")
	} else {
		b.WriteString(theme.Unselected.Render("  "+practiceLine) + "\n")
	}

	if s.status != "" {
		b.WriteString("\n" + theme.Incorrect.Render(s.status) + "\n")
	}

	return theme.Card.Width(min(width-4, 76)).Render(b.String())
}
