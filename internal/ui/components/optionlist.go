package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/ashwin/langmate/internal/ui/theme"
)

// OptionList renders a quiz question's choices. The cursor is where the user
// is pointing; Chosen is the answer recorded for the question (-1 when none).
// Key handling lives in the owning screen; this is render-only.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int
}

const optionLabels = "ABCDEFGHIJ"

// View renders the options with letter labels, marking the recorded answer.
func (o OptionList) View() string {
	var s string
	for i, opt := range o.Options {
		label := "?"
		if i < len(optionLabels) {
			label = string(optionLabels[i])
		}

		marker := "  "
		if i == o.Chosen {
			marker = "● "
		}

		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s%s)  %s", prefix, marker, label, opt)

		switch {
		case i == o.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(line) + "\n"
		case i == o.Cursor:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
