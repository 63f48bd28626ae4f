package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/ashwin/langmate/internal/screen"
)

type stubScreen struct {
	name        string
	initCalls   int
	updateCalls int
	refreshes   int
	refreshCmd  tea.Cmd
}

func (s *stubScreen) Init() tea.Cmd {
	s.initCalls++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.updateCalls++
	if _, ok := msg.(RefreshDataMsg); ok {
		s.refreshes++
		return s, s.refreshCmd
	}
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.name }
func (s *stubScreen) Title() string        { return s.name }

func TestPushPop(t *testing.T) {
	base := &stubScreen{name: "base"}
	r := New(base)

	if r.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", r.Depth())
	}

	top := &stubScreen{name: "top"}
	r.Update(PushScreenMsg{Screen: top})
	if r.Depth() != 2 {
		t.Fatalf("expected depth 2 after push, got %d", r.Depth())
	}
	if top.initCalls != 1 {
		t.Errorf("pushed screen should be initialized once, got %d", top.initCalls)
	}
	if r.Active() != top {
		t.Error("pushed screen should be active")
	}

	r.Update(PopScreenMsg{})
	if r.Active() != base {
		t.Error("pop should restore the previous screen")
	}
}

func TestPopNeverEmptiesStack(t *testing.T) {
	r := New(&stubScreen{name: "only"})
	r.Update(PopScreenMsg{})
	r.Update(PopScreenMsg{})
	if r.Depth() != 1 {
		t.Errorf("pop on the last screen should be a no-op, got depth %d", r.Depth())
	}
}

func TestRegularMessagesGoToActiveOnly(t *testing.T) {
	base := &stubScreen{name: "base"}
	top := &stubScreen{name: "top"}
	r := New(base)
	r.Update(PushScreenMsg{Screen: top})

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if top.updateCalls != 1 {
		t.Errorf("active screen should receive the message, got %d calls", top.updateCalls)
	}
	if base.updateCalls != 0 {
		t.Errorf("buried screen should not receive regular messages, got %d calls", base.updateCalls)
	}
}

func TestRefreshBroadcastsToWholeStack(t *testing.T) {
	base := &stubScreen{name: "base"}
	mid := &stubScreen{name: "mid"}
	top := &stubScreen{name: "top"}
	r := New(base)
	r.Update(PushScreenMsg{Screen: mid})
	r.Update(PushScreenMsg{Screen: top})

	r.Update(RefreshDataMsg{})
	for _, s := range []*stubScreen{base, mid, top} {
		if s.refreshes != 1 {
			t.Errorf("screen %s should see exactly one refresh, got %d", s.name, s.refreshes)
		}
	}
}

func TestRefreshBatchesCommands(t *testing.T) {
	fired := 0
	cmd := func() tea.Msg { fired++; return nil }
	base := &stubScreen{name: "base", refreshCmd: cmd}
	top := &stubScreen{name: "top", refreshCmd: cmd}
	r := New(base)
	r.Update(PushScreenMsg{Screen: top})

	batched := r.Update(RefreshDataMsg{})
	if batched == nil {
		t.Fatal("expected a batched command from refresh")
	}
}

func TestRefreshWithNoCommandsReturnsNil(t *testing.T) {
	r := New(&stubScreen{name: "base"})
	if cmd := r.Update(RefreshDataMsg{}); cmd != nil {
		t.Error("refresh with no reload commands should return nil")
	}
}

func TestViewRendersActive(t *testing.T) {
	r := New(&stubScreen{name: "base"})
	r.Update(PushScreenMsg{Screen: &stubScreen{name: "top"}})
	if got := r.View(80, 24); got != "top" {
		t.Errorf("expected active screen view, got %q", got)
	}
}
