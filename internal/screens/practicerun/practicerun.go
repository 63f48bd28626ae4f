package practicerun

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ashwin/langmate/internal/api"
	"github.com/ashwin/langmate/internal/langtheme"
	"github.com/ashwin/langmate/internal/practice"
	"github.com/ashwin/langmate/internal/router"
	"github.com/ashwin/langmate/internal/screen"
	"github.com/ashwin/langmate/internal/ui/components"
	"github.com/ashwin/langmate/internal/ui/layout"
	"github.com/ashwin/langmate/internal/ui/theme"
)

// autoCloseDelay is how long the result view stays up before the session
// closes itself.
const autoCloseDelay = 5 * time.Second

// Backend is the API surface a practice run needs.
type Backend interface {
	PracticeQuestions(ctx context.Context, moduleID string) ([]api.PracticeQuestion, error)
	SubmitPractice(ctx context.Context, moduleID string, answers []int) (api.PracticeResult, error)
}

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseSubmitting
	phaseResult
	phaseError
)

// failedOp tells the retry key which request to re-issue.
type failedOp int

const (
	opLoad failedOp = iota
	opSubmit
)

// PracticeScreen runs one quiz: fetch questions, collect answers, submit,
// show the graded result, then close (automatically or on a key).
type PracticeScreen struct {
	backend  Backend
	moduleID string
	theme    langtheme.Theme

	session *practice.Session
	cursor  int
	result  api.PracticeResult

	phase   phase
	lastOp  failedOp
	errMsg  string
	epoch   int // auto-close timer generation; bumping it cancels pending fires
	spinner components.Spinner
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a practice screen for one module.
func New(backend Backend, moduleID string, t langtheme.Theme) *PracticeScreen {
	return &PracticeScreen{
		backend:  backend,
		moduleID: moduleID,
		theme:    t,
		spinner:  components.NewSpinner("Fetching questions..."),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.loadQuestions(), s.spinner.Tick())
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswering:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "←→", Description: "Question"},
			{Key: "Esc", Description: "Abandon"},
		}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
		}
	case phaseError:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Close"},
		}
	}
	return nil
}

func (s *PracticeScreen) loadQuestions() tea.Cmd {
	return func() tea.Msg {
		questions, err := s.backend.PracticeQuestions(context.Background(), s.moduleID)
		return questionsLoadedMsg{Questions: questions, Err: err}
	}
}

func (s *PracticeScreen) submit() tea.Cmd {
	answers := append([]int(nil), s.session.Answers...)
	return func() tea.Msg {
		result, err := s.backend.SubmitPractice(context.Background(), s.moduleID, answers)
		return resultMsg{Result: result, Err: err}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		return s.handleQuestions(msg)

	case resultMsg:
		return s.handleResult(msg)

	case autoCloseMsg:
		if msg.Epoch == s.epoch && s.phase == phaseResult {
			return s, s.close()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseLoading || s.phase == phaseSubmitting {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleQuestions(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseError
		s.lastOp = opLoad
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	session, err := practice.NewSession(s.moduleID, msg.Questions)
	if err != nil {
		s.phase = phaseError
		s.lastOp = opLoad
		s.errMsg = err.Error()
		return s, nil
	}

	s.session = session
	s.cursor = 0
	s.phase = phaseAnswering
	return s, nil
}

func (s *PracticeScreen) handleResult(msg resultMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseError
		s.lastOp = opSubmit
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.result = msg.Result
	s.phase = phaseResult

	// One timer generation per entry into the result phase. The epoch bump
	// invalidates any previously scheduled fire, so at most one close can
	// ever come out of this.
	s.epoch++
	epoch := s.epoch
	closeTimer := tea.Tick(autoCloseDelay, func(time.Time) tea.Msg {
		return autoCloseMsg{Epoch: epoch}
	})

	// The submission may have changed progress and achievements server-side.
	refresh := func() tea.Msg { return router.RefreshDataMsg{} }

	return s, tea.Batch(refresh, closeTimer)
}

// close cancels any pending auto-close and pops the screen.
func (s *PracticeScreen) close() tea.Cmd {
	s.epoch++
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseError:
		switch key {
		case "r", "R":
			if s.lastOp == opSubmit {
				s.phase = phaseSubmitting
				s.spinner = components.NewSpinner("Scoring...")
				return s, tea.Batch(s.submit(), s.spinner.Tick())
			}
			s.phase = phaseLoading
			s.spinner = components.NewSpinner("Fetching questions...")
			return s, tea.Batch(s.loadQuestions(), s.spinner.Tick())
		case "esc":
			return s, s.close()
		}
		return s, nil

	case phaseResult:
		switch key {
		case "enter", "esc", " ":
			return s, s.close()
		}
		return s, nil

	case phaseAnswering:
		return s.handleAnswerKey(key)
	}

	// Loading and submitting ignore everything except a hard abandon.
	if key == "esc" {
		return s, s.close()
	}
	return s, nil
}

func (s *PracticeScreen) handleAnswerKey(key string) (screen.Screen, tea.Cmd) {
	q := s.session.Current()

	switch key {
	case "esc":
		return s, s.close()
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(q.Options)-1 {
			s.cursor++
		}
	case "enter", " ":
		s.session.SelectAnswer(s.cursor)
	case "left", "h", "p":
		s.session.Previous()
		s.resetCursor()
	case "right", "l", "n":
		if s.session.Next() {
			s.phase = phaseSubmitting
			s.spinner = components.NewSpinner("Scoring...")
			return s, tea.Batch(s.submit(), s.spinner.Tick())
		}
		s.resetCursor()
	default:
		// Digit keys pick an option directly.
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(q.Options) {
				s.cursor = idx
				s.session.SelectAnswer(idx)
			}
		}
	}
	return s, nil
}

// resetCursor points the cursor at the recorded answer for the now-current
// question, or the first option when it is unanswered.
func (s *PracticeScreen) resetCursor() {
	if a := s.session.Answers[s.session.Index]; a != practice.Unanswered {
		s.cursor = a
	} else {
		s.cursor = 0
	}
}

func (s *PracticeScreen) View(width, height int) string {
	switch s.phase {
	case phaseLoading, phaseSubmitting:
		return layout.Centered(s.spinner.View(), width, height)
	case phaseError:
		msg := theme.Incorrect.Render("Practice unavailable") + "\n\n" +
			theme.Hint.Render(s.errMsg) + "\n\n" +
			theme.Body.Render("Press R to retry, Esc to close")
		return layout.Centered(msg, width, height)
	case phaseResult:
		return layout.Centered(s.renderResult(), width, height)
	}
	return layout.Centered(s.renderQuestion(width), width, height)
}

func (s *PracticeScreen) renderQuestion(width int) string {
	q := s.session.Current()

	header := lipgloss.NewStyle().Foreground(s.theme.Primary).Bold(true).
		Render(fmt.Sprintf("📝 Question %d / %d", s.session.Index+1, len(s.session.Questions)))

	question := theme.Body.Bold(true).Render(q.Question)

	options := components.OptionList{
		Options: q.Options,
		Cursor:  s.cursor,
		Chosen:  s.session.Answers[s.session.Index],
	}

	footer := theme.Hint.Render(fmt.Sprintf("%d of %d answered",
		s.session.AnsweredCount(), len(s.session.Questions)))
	if s.session.Index == len(s.session.Questions)-1 {
		footer += theme.Hint.Render("  ·  → submits")
	}

	body := strings.Join([]string{header, "", question, "", options.View(), footer}, "\n")
	return theme.Card.Width(min(width-4, 72)).Render(body)
}

func (s *PracticeScreen) renderResult() string {
	percent := int(math.Round(s.result.Score))

	var message string
	switch {
	case percent >= 90:
		message = "🎉 Outstanding!"
	case percent >= 70:
		message = "💪 Nicely done!"
	case percent >= 50:
		message = "📚 Keep at it!"
	default:
		message = "💪 Don't give up!"
	}

	score := lipgloss.NewStyle().Foreground(s.theme.Primary).Bold(true).
		Render(fmt.Sprintf("%d%%", percent))
	detail := theme.Body.Render(fmt.Sprintf("%d / %d correct",
		s.result.CorrectCount, s.result.TotalCount))
	hint := theme.Hint.Render("Closing shortly · Enter to continue")
	ref := theme.Hint.Render("attempt " + shortID(s.session.ID))

	body := strings.Join([]string{
		theme.Title.Render("📊 Practice result"),
		"",
		theme.Body.Render(message),
		"",
		score,
		detail,
		"",
		hint,
		ref,
	}, "\n")

	return theme.Card.Render(body)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
