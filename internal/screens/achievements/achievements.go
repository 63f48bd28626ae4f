package achievements

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/samber/lo"

	"github.com/ashwin/langmate/internal/api"
	"github.com/ashwin/langmate/internal/router"
	"github.com/ashwin/langmate/internal/screen"
	"github.com/ashwin/langmate/internal/ui/layout"
	"github.com/ashwin/langmate/internal/ui/theme"
)

// Backend is the API surface the achievements panel needs.
type Backend interface {
	Achievements(ctx context.Context) ([]api.Achievement, error)
}

type reloadedMsg struct {
	Achievements []api.Achievement
	Err          error
}

// AchievementsScreen lists unlocked and locked achievements. It opens with
// the snapshot the dashboard already holds and re-fetches whenever progress
// changes elsewhere in the app.
type AchievementsScreen struct {
	backend      Backend
	achievements []api.Achievement
	errMsg       string
}

var _ screen.Screen = (*AchievementsScreen)(nil)
var _ screen.KeyHintProvider = (*AchievementsScreen)(nil)

// New creates the achievements panel seeded with an already-fetched list.
func New(backend Backend, initial []api.Achievement) *AchievementsScreen {
	return &AchievementsScreen{backend: backend, achievements: initial}
}

func (s *AchievementsScreen) Init() tea.Cmd {
	return nil
}

func (s *AchievementsScreen) Title() string {
	return "🏆 Achievements"
}

func (s *AchievementsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Close"},
	}
}

func (s *AchievementsScreen) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		list, err := s.backend.Achievements(context.Background())
		return reloadedMsg{Achievements: list, Err: err}
	}
}

func (s *AchievementsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case router.RefreshDataMsg:
		return s, s.reloadCmd()

	case reloadedMsg:
		if msg.Err != nil {
			// Keep the snapshot we already have; a stale list beats an
			// empty panel.
			s.errMsg = "Could not refresh achievements"
			return s, nil
		}
		s.errMsg = ""
		s.achievements = msg.Achievements
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *AchievementsScreen) View(width, height int) string {
	unlocked := lo.Filter(s.achievements, func(a api.Achievement, _ int) bool {
		return a.Unlocked
	})
	locked := lo.Filter(s.achievements, func(a api.Achievement, _ int) bool {
		return !a.Unlocked
	})

	var b strings.Builder

	b.WriteString(theme.Subtitle.Render(
		fmt.Sprintf("%d of %d unlocked", len(unlocked), len(s.achievements))) + "\n")
	if s.errMsg != "" {
		b.WriteString(theme.Incorrect.Render(s.errMsg) + "\n")
	}
	b.WriteString("\n")

	if len(s.achievements) == 0 {
		b.WriteString(theme.Hint.Render("No achievements yet. Keep learning!"))
	}

	for _, a := range unlocked {
		b.WriteString(theme.Correct.Render("🏆 "+a.Name) + "\n")
		b.WriteString(theme.Hint.Render("   "+a.Description) + "\n")
	}
	if len(unlocked) > 0 && len(locked) > 0 {
		b.WriteString("\n")
	}
	for _, a := range locked {
		b.WriteString(theme.Unselected.Render("🔒 "+a.Name) + "\n")
		b.WriteString(theme.Hint.Render("   "+a.Description) + "\n")
	}

	card := theme.Card.Width(min(width-4, 64)).Render(b.String())
	return layout.Centered(card, width, height)
}
