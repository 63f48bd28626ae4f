package practicerun

import (
	"github.com/ashwin/langmate/internal/api"
)

// questionsLoadedMsg is sent when the quiz has been fetched (or failed).
type questionsLoadedMsg struct {
	Questions []api.PracticeQuestion
	Err       error
}

// resultMsg is sent when the server has graded a submission.
type resultMsg struct {
	Result api.PracticeResult
	Err    error
}

// autoCloseMsg fires the result view's one-shot auto-close. The epoch ties
// the message to the timer generation that scheduled it; a stale epoch means
// the session was closed (or re-entered the result phase) in the meantime
// and the fire must be ignored.
type autoCloseMsg struct {
	Epoch int
}
