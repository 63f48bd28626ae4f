package practicerun

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/ashwin/langmate/internal/api"
	"github.com/ashwin/langmate/internal/langtheme"
	"github.com/ashwin/langmate/internal/router"
)

type stubBackend struct {
	questions    []api.PracticeQuestion
	questionsErr error
	result       api.PracticeResult
	submitErr    error

	loadCalls    int
	submitCalls  int
	lastAnswers  []int
	lastModuleID string
}

func (b *stubBackend) PracticeQuestions(_ context.Context, moduleID string) ([]api.PracticeQuestion, error) {
	b.loadCalls++
	b.lastModuleID = moduleID
	return b.questions, b.questionsErr
}

func (b *stubBackend) SubmitPractice(_ context.Context, moduleID string, answers []int) (api.PracticeResult, error) {
	b.submitCalls++
	b.lastModuleID = moduleID
	b.lastAnswers = answers
	return b.result, b.submitErr
}

func threeQuestions() []api.PracticeQuestion {
	return []api.PracticeQuestion{
		{ID: 1, Question: "First?", Options: []string{"a", "b", "c"}},
		{ID: 2, Question: "Second?", Options: []string{"a", "b"}},
		{ID: 3, Question: "Third?", Options: []string{"a", "b", "c", "d"}},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// newAnswering returns a screen that has loaded its questions.
func newAnswering(t *testing.T, b *stubBackend) *PracticeScreen {
	t.Helper()
	s := New(b, "01-basics", langtheme.Resolve("go"))
	s.Update(questionsLoadedMsg{Questions: b.questions})
	if s.phase != phaseAnswering {
		t.Fatalf("expected answering phase, got %v (error %q)", s.phase, s.errMsg)
	}
	return s
}

// runCmd executes a command and flattens batches into the collected messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestLoadFailureEntersErrorPhase(t *testing.T) {
	b := &stubBackend{questionsErr: errors.New("connection refused")}
	s := New(b, "01-basics", langtheme.Resolve("go"))

	s.Update(questionsLoadedMsg{Err: b.questionsErr})
	if s.phase != phaseError {
		t.Fatalf("expected error phase, got %v", s.phase)
	}

	view := s.View(80, 24)
	if !strings.Contains(view, "Practice unavailable") {
		t.Error("error view should say practice is unavailable")
	}
}

func TestZeroOptionQuestionFailsFast(t *testing.T) {
	b := &stubBackend{questions: []api.PracticeQuestion{
		{ID: 1, Question: "Broken", Options: nil},
	}}
	s := New(b, "01-basics", langtheme.Resolve("go"))

	s.Update(questionsLoadedMsg{Questions: b.questions})
	if s.phase != phaseError {
		t.Fatalf("a question without options should fail, got phase %v", s.phase)
	}
}

func TestRetryReloadsAfterLoadFailure(t *testing.T) {
	b := &stubBackend{questionsErr: errors.New("timeout")}
	s := New(b, "01-basics", langtheme.Resolve("go"))
	s.Update(questionsLoadedMsg{Err: b.questionsErr})

	_, cmd := s.Update(keyPress('r'))
	if s.phase != phaseLoading {
		t.Fatalf("retry should re-enter loading, got %v", s.phase)
	}
	runCmd(cmd)
	if b.loadCalls != 1 {
		t.Errorf("retry should re-fetch questions, got %d calls", b.loadCalls)
	}
}

func TestAnswerAndNavigate(t *testing.T) {
	b := &stubBackend{questions: threeQuestions()}
	s := newAnswering(t, b)

	s.Update(keyPress('j'))              // cursor to option b
	s.Update(specialKey(tea.KeyEnter))   // choose it
	s.Update(specialKey(tea.KeyRight))   // next question
	s.Update(keyPress('2'))              // digit select
	s.Update(specialKey(tea.KeyLeft))    // back to first

	if s.session.Answers[0] != 1 {
		t.Errorf("expected answer 1 for question 0, got %d", s.session.Answers[0])
	}
	if s.session.Answers[1] != 1 {
		t.Errorf("expected answer 1 for question 1, got %d", s.session.Answers[1])
	}
	if s.session.Index != 0 {
		t.Errorf("expected to be back on question 0, got %d", s.session.Index)
	}
	if s.cursor != 1 {
		t.Errorf("cursor should point at the recorded answer, got %d", s.cursor)
	}
}

func TestAdvancePastLastQuestionSubmits(t *testing.T) {
	b := &stubBackend{
		questions: threeQuestions(),
		result:    api.PracticeResult{Score: 66.67, CorrectCount: 2, TotalCount: 3},
	}
	s := newAnswering(t, b)

	s.Update(specialKey(tea.KeyEnter)) // answer q1 with option a
	s.Update(specialKey(tea.KeyRight))
	s.Update(specialKey(tea.KeyRight))
	_, cmd := s.Update(specialKey(tea.KeyRight)) // past the last question

	if s.phase != phaseSubmitting {
		t.Fatalf("expected submitting phase, got %v", s.phase)
	}
	runCmd(cmd)
	if b.submitCalls != 1 {
		t.Fatalf("expected one submission, got %d", b.submitCalls)
	}
	// Unanswered slots go out as sentinels.
	want := []int{0, -1, -1}
	for i, a := range b.lastAnswers {
		if a != want[i] {
			t.Errorf("answers[%d] = %d, want %d", i, a, want[i])
			break
		}
	}
}

func TestResultViewShowsRoundedScoreAndCounts(t *testing.T) {
	b := &stubBackend{questions: threeQuestions()}
	s := newAnswering(t, b)

	s.Update(resultMsg{Result: api.PracticeResult{Score: 66.67, CorrectCount: 2, TotalCount: 3}})
	if s.phase != phaseResult {
		t.Fatalf("expected result phase, got %v", s.phase)
	}

	view := s.View(80, 24)
	if !strings.Contains(view, "67%") {
		t.Errorf("result should show the rounded percentage, got:\n%s", view)
	}
	if !strings.Contains(view, "2 / 3 correct") {
		t.Errorf("result should show the correct count, got:\n%s", view)
	}
}

func TestResultBroadcastsRefreshAndSchedulesClose(t *testing.T) {
	b := &stubBackend{questions: threeQuestions()}
	s := newAnswering(t, b)

	_, cmd := s.Update(resultMsg{Result: api.PracticeResult{Score: 100, CorrectCount: 3, TotalCount: 3}})
	if cmd == nil {
		t.Fatal("result should produce refresh and timer commands")
	}

	// The batch is refresh first, then the close timer. The timer command
	// blocks until it fires, so only the refresh is executed here.
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a batched command")
	}
	if len(batch) != 2 {
		t.Fatalf("expected refresh and close timer, got %d commands", len(batch))
	}
	if _, ok := batch[0]().(router.RefreshDataMsg); !ok {
		t.Error("result should broadcast a data refresh")
	}
}

func TestAutoCloseFiresExactlyOnce(t *testing.T) {
	b := &stubBackend{questions: threeQuestions()}
	s := newAnswering(t, b)
	s.Update(resultMsg{Result: api.PracticeResult{Score: 100, CorrectCount: 3, TotalCount: 3}})

	_, cmd := s.Update(autoCloseMsg{Epoch: s.epoch})
	if cmd == nil {
		t.Fatal("current-epoch auto-close should pop the screen")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg from auto-close")
	}

	// The close bumped the epoch; a duplicate fire from the old timer must
	// be ignored.
	_, cmd = s.Update(autoCloseMsg{Epoch: s.epoch - 1})
	if cmd != nil {
		t.Error("stale auto-close should be ignored")
	}
}

func TestManualCloseCancelsAutoClose(t *testing.T) {
	b := &stubBackend{questions: threeQuestions()}
	s := newAnswering(t, b)
	s.Update(resultMsg{Result: api.PracticeResult{Score: 100, CorrectCount: 3, TotalCount: 3}})
	scheduled := s.epoch

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter on the result should close")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg from manual close")
	}

	_, cmd = s.Update(autoCloseMsg{Epoch: scheduled})
	if cmd != nil {
		t.Error("pending auto-close must not fire after a manual close")
	}
}

func TestStaleAutoCloseIgnoredOutsideResultPhase(t *testing.T) {
	b := &stubBackend{questions: threeQuestions()}
	s := newAnswering(t, b)

	_, cmd := s.Update(autoCloseMsg{Epoch: s.epoch})
	if cmd != nil {
		t.Error("auto-close must be a no-op while answering")
	}
}

func TestSubmitFailureRetriesSubmissionNotLoad(t *testing.T) {
	b := &stubBackend{questions: threeQuestions(), submitErr: errors.New("503")}
	s := newAnswering(t, b)

	s.Update(resultMsg{Err: b.submitErr})
	if s.phase != phaseError {
		t.Fatalf("expected error phase, got %v", s.phase)
	}

	_, cmd := s.Update(keyPress('r'))
	runCmd(cmd)
	if b.submitCalls != 1 {
		t.Errorf("retry after submit failure should resubmit, got %d submits", b.submitCalls)
	}
	if b.loadCalls != 0 {
		t.Errorf("retry after submit failure should not reload questions, got %d loads", b.loadCalls)
	}
}

func TestEscAbandonsWithoutSubmitting(t *testing.T) {
	b := &stubBackend{questions: threeQuestions()}
	s := newAnswering(t, b)

	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("esc should close the screen")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("expected PopScreenMsg from abandon")
	}
	if b.submitCalls != 0 {
		t.Error("abandoning must not submit answers")
	}
}
