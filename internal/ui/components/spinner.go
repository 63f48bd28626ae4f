package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ashwin/langmate/internal/ui/theme"
)

// Spinner wraps bubbles/spinner with LangMate styling for loading states.
type Spinner struct {
	Model   spinner.Model
	Message string
}

// NewSpinner creates a styled loading spinner with a message line.
func NewSpinner(message string) Spinner {
	m := spinner.New()
	m.Spinner = spinner.Dot
	m.Style = lipgloss.NewStyle().Foreground(theme.Primary)
	return Spinner{Model: m, Message: message}
}

// Tick returns the command that keeps the spinner animating.
func (s Spinner) Tick() tea.Cmd {
	return s.Model.Tick
}

// Update advances the spinner animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the spinner and its message.
func (s Spinner) View() string {
	return s.Model.View() + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.Message)
}
