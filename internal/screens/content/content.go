package content

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/ashwin/langmate/internal/api"
	"github.com/ashwin/langmate/internal/langtheme"
	"github.com/ashwin/langmate/internal/router"
	"github.com/ashwin/langmate/internal/screen"
	"github.com/ashwin/langmate/internal/ui/components"
	"github.com/ashwin/langmate/internal/ui/layout"
	"github.com/ashwin/langmate/internal/ui/theme"
)

// Backend is the API surface the content viewer needs.
type Backend interface {
	Content(ctx context.Context, language, moduleID, contentType string) (string, error)
	Examples(ctx context.Context, language, moduleID string) ([]string, error)
	ExampleContent(ctx context.Context, language, moduleID, filename string) (string, error)
}

// fetchKind identifies which request is in flight / failed, so the retry key
// re-issues exactly the same fetch without resetting navigation.
type fetchKind int

const (
	fetchDirect fetchKind = iota
	fetchList
	fetchFile
)

type contentLoadedMsg struct {
	Content string
	Err     error
}

type listLoadedMsg struct {
	Files []string
	Err   error
}

type fileLoadedMsg struct {
	Name    string
	Content string
	Err     error
}

var contentTypeNames = map[string]string{
	"readme":    "📖 README",
	"exercises": "✏️ Exercises",
	"project":   "📦 Project",
	"examples":  "💻 Code examples",
	"checklist": "✅ Self-check",
}

// ContentScreen shows module content. Most content types fetch and render
// directly; "examples" goes through a file listing first. Close policy: Esc
// from a selected file goes back to the (re-fetched) listing; Esc from the
// listing or from direct content dismisses the viewer.
type ContentScreen struct {
	backend     Backend
	module      api.LearningModule
	contentType string
	theme       langtheme.Theme

	files    []string
	cursor   int
	selected string // example filename currently shown, empty otherwise
	raw      string

	rendered      string // cached glamour output for renderedWidth
	renderedWidth int
	scroll        int

	loading   bool
	errMsg    string
	lastFetch fetchKind
	spinner   components.Spinner
}

var _ screen.Screen = (*ContentScreen)(nil)
var _ screen.KeyHintProvider = (*ContentScreen)(nil)

// New creates a content viewer for one module content type.
func New(backend Backend, mod api.LearningModule, contentType string) *ContentScreen {
	return &ContentScreen{
		backend:     backend,
		module:      mod,
		contentType: contentType,
		theme:       langtheme.Resolve(mod.Language),
		loading:     true,
		spinner:     components.NewSpinner("Loading content..."),
	}
}

func (s *ContentScreen) Init() tea.Cmd {
	if s.contentType == "examples" {
		return tea.Batch(s.fetchListCmd(), s.spinner.Tick())
	}
	return tea.Batch(s.fetchDirectCmd(), s.spinner.Tick())
}

func (s *ContentScreen) Title() string {
	if name, ok := contentTypeNames[s.contentType]; ok {
		return name
	}
	return "📄 Content"
}

func (s *ContentScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if s.listing() {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Open file"},
			{Key: "Esc", Description: "Close"},
		}
	}
	back := "Close"
	if s.selected != "" {
		back = "File list"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: back},
	}
}

// listing reports whether the example file list is the current view.
func (s *ContentScreen) listing() bool {
	return s.contentType == "examples" && s.selected == "" && s.raw == ""
}

func (s *ContentScreen) fetchDirectCmd() tea.Cmd {
	return func() tea.Msg {
		body, err := s.backend.Content(context.Background(),
			s.module.Language, s.module.ID, s.contentType)
		return contentLoadedMsg{Content: body, Err: err}
	}
}

func (s *ContentScreen) fetchListCmd() tea.Cmd {
	return func() tea.Msg {
		files, err := s.backend.Examples(context.Background(),
			s.module.Language, s.module.ID)
		return listLoadedMsg{Files: files, Err: err}
	}
}

func (s *ContentScreen) fetchFileCmd(name string) tea.Cmd {
	return func() tea.Msg {
		body, err := s.backend.ExampleContent(context.Background(),
			s.module.Language, s.module.ID, name)
		return fileLoadedMsg{Name: name, Content: body, Err: err}
	}
}

func (s *ContentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case contentLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.lastFetch = fetchDirect
			return s, nil
		}
		s.errMsg = ""
		s.setContent(msg.Content)
		return s, nil

	case listLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.lastFetch = fetchList
			return s, nil
		}
		s.errMsg = ""
		s.files = msg.Files
		s.selected = ""
		s.raw = ""
		s.rendered = ""
		if s.cursor >= len(s.files) {
			s.cursor = len(s.files) - 1
		}
		if s.cursor < 0 {
			s.cursor = 0
		}
		return s, nil

	case fileLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.lastFetch = fetchFile
			s.selected = msg.Name // retry re-fetches this same file
			return s, nil
		}
		s.errMsg = ""
		s.selected = msg.Name
		s.setContent(msg.Content)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ContentScreen) setContent(body string) {
	s.raw = body
	s.rendered = ""
	s.scroll = 0
}

func (s *ContentScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		switch key {
		case "r", "R":
			s.errMsg = ""
			s.loading = true
			s.spinner = components.NewSpinner("Loading content...")
			switch s.lastFetch {
			case fetchList:
				return s, tea.Batch(s.fetchListCmd(), s.spinner.Tick())
			case fetchFile:
				return s, tea.Batch(s.fetchFileCmd(s.selected), s.spinner.Tick())
			default:
				return s, tea.Batch(s.fetchDirectCmd(), s.spinner.Tick())
			}
		case "esc":
			// One level back, mirroring normal navigation: a failed file
			// fetch returns to the list, anything else closes the viewer.
			if s.lastFetch == fetchFile {
				return s, s.backToList()
			}
			return s, popCmd()
		}
		return s, nil
	}

	if s.loading {
		if key == "esc" {
			return s, popCmd()
		}
		return s, nil
	}

	if s.listing() {
		switch key {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.files)-1 {
				s.cursor++
			}
		case "enter":
			if s.cursor >= 0 && s.cursor < len(s.files) {
				s.loading = true
				s.spinner = components.NewSpinner("Loading " + s.files[s.cursor] + "...")
				return s, tea.Batch(s.fetchFileCmd(s.files[s.cursor]), s.spinner.Tick())
			}
		case "esc":
			return s, popCmd()
		}
		return s, nil
	}

	// Viewing content.
	switch key {
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		s.scroll++
	case "pgup":
		s.scroll -= 10
		if s.scroll < 0 {
			s.scroll = 0
		}
	case "pgdown":
		s.scroll += 10
	case "esc":
		if s.selected != "" {
			return s, s.backToList()
		}
		return s, popCmd()
	}
	return s, nil
}

// backToList returns from a selected example to the listing. The list is
// always re-fetched, never replayed from memory, so it reflects any change
// on the server since the drill-down.
func (s *ContentScreen) backToList() tea.Cmd {
	s.errMsg = ""
	s.selected = ""
	s.raw = ""
	s.rendered = ""
	s.loading = true
	s.spinner = components.NewSpinner("Loading examples...")
	return tea.Batch(s.fetchListCmd(), s.spinner.Tick())
}

func popCmd() tea.Cmd {
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *ContentScreen) View(width, height int) string {
	if s.loading {
		return layout.Centered(s.spinner.View(), width, height)
	}
	if s.errMsg != "" {
		msg := theme.Incorrect.Render("Failed to load content") + "\n\n" +
			theme.Hint.Render(s.errMsg) + "\n\n" +
			theme.Body.Render("Press R to retry")
		return layout.Centered(msg, width, height)
	}
	if s.listing() {
		return s.renderListing(width)
	}
	return s.renderContent(width, height)
}

func (s *ContentScreen) renderListing(width int) string {
	var b strings.Builder

	header := lipgloss.NewStyle().Foreground(s.theme.Primary).Bold(true).
		Render("Choose an example file")
	b.WriteString(header + "\n\n")

	if len(s.files) == 0 {
		b.WriteString(theme.Hint.Render("No examples available for this module"))
	}

	for i, f := range s.files {
		line := "📄 " + f
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+line) + "\n")
		}
	}

	return theme.Card.Width(min(width-4, 72)).Render(b.String())
}

func (s *ContentScreen) renderContent(width, height int) string {
	var header string
	if s.selected != "" {
		header = lipgloss.NewStyle().Foreground(s.theme.Primary).Bold(true).
			Render(s.selected)
	} else {
		header = lipgloss.NewStyle().Foreground(s.theme.Primary).Bold(true).
			Render(s.Title())
	}

	body := s.renderBody(width - 4)
	if strings.TrimSpace(body) == "" {
		body = theme.Hint.Render("No content yet")
	}

	lines := strings.Split(body, "\n")
	window := height - 3 // header + spacing
	if window < 1 {
		window = 1
	}

	maxScroll := len(lines) - window
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}

	end := s.scroll + window
	if end > len(lines) {
		end = len(lines)
	}
	visible := strings.Join(lines[s.scroll:end], "\n")

	position := ""
	if maxScroll > 0 {
		position = theme.Hint.Render(" ·· scroll for more ··")
	}

	return header + "\n" + visible + "\n" + position
}

// renderBody renders markdown content through glamour; example files are
// source code and stay verbatim. The render is cached per width.
func (s *ContentScreen) renderBody(width int) string {
	if s.selected != "" {
		return theme.Body.Render(s.raw)
	}
	if s.rendered != "" && s.renderedWidth == width {
		return s.rendered
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return s.raw
	}
	out, err := r.Render(s.raw)
	if err != nil {
		return s.raw
	}

	s.rendered = out
	s.renderedWidth = width
	return out
}
