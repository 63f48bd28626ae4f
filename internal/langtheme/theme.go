// Package langtheme maps language identifiers to display themes.
package langtheme

import (
	"image/color"
	"unicode"
	"unicode/utf8"

	"charm.land/lipgloss/v2"
)

// Theme is a language's display palette plus its badge emoji and name.
// Themes are created by lookup and never mutated.
type Theme struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Bg        color.Color
	Text      color.Color
	Emoji     string
	Name      string
}

var themes = map[string]Theme{
	"rust": {
		Primary:   lipgloss.Color("#DC5028"),
		Secondary: lipgloss.Color("#F97316"),
		Accent:    lipgloss.Color("#EA580C"),
		Bg:        lipgloss.Color("#FFF7ED"),
		Text:      lipgloss.Color("#7C2D12"),
		Emoji:     "🦀",
		Name:      "Rust",
	},
	"python": {
		Primary:   lipgloss.Color("#3776AB"),
		Secondary: lipgloss.Color("#3B82F6"),
		Accent:    lipgloss.Color("#2563EB"),
		Bg:        lipgloss.Color("#EFF6FF"),
		Text:      lipgloss.Color("#1E3A8A"),
		Emoji:     "🐍",
		Name:      "Python",
	},
	"go": {
		Primary:   lipgloss.Color("#00ADD8"),
		Secondary: lipgloss.Color("#06B6D4"),
		Accent:    lipgloss.Color("#0891B2"),
		Bg:        lipgloss.Color("#ECFEFF"),
		Text:      lipgloss.Color("#164E63"),
		Emoji:     "🐹",
		Name:      "Go",
	},
}

// Resolve returns the theme for a language identifier. Unknown identifiers
// get a neutral gray theme named after the capitalized input, so the lookup
// is total and rendering never has a missing-theme case.
func Resolve(language string) Theme {
	if t, ok := themes[language]; ok {
		return t
	}
	return Theme{
		Primary:   lipgloss.Color("#6B7280"),
		Secondary: lipgloss.Color("#9CA3AF"),
		Accent:    lipgloss.Color("#4B5563"),
		Bg:        lipgloss.Color("#F3F4F6"),
		Text:      lipgloss.Color("#1F2937"),
		Emoji:     "📚",
		Name:      capitalize(language),
	}
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
