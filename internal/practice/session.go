// Package practice holds the quiz session state machine, kept separate from
// the screen that renders it so transitions can be tested without a terminal.
package practice

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ashwin/langmate/internal/api"
)

// Unanswered is the sentinel stored for questions the user never answered.
// It is submitted as-is; scoring unanswered slots is the server's policy.
const Unanswered = -1

// ErrNoOptions indicates a question arrived with an empty choice set. That is
// a server contract violation, so session construction fails instead of
// rendering an unanswerable question.
var ErrNoOptions = errors.New("question has no options")

// Session is an in-flight practice quiz for one module. The answer buffer is
// positional: Answers[i] is the chosen option index for Questions[i].
type Session struct {
	ID        string
	ModuleID  string
	Questions []api.PracticeQuestion
	Answers   []int
	Index     int
}

// NewSession starts a session at the first question with every answer slot
// at the Unanswered sentinel.
func NewSession(moduleID string, questions []api.PracticeQuestion) (*Session, error) {
	if len(questions) == 0 {
		return nil, errors.New("practice set is empty")
	}
	for _, q := range questions {
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("question %d: %w", q.ID, ErrNoOptions)
		}
	}

	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = Unanswered
	}

	return &Session{
		ID:        uuid.New().String(),
		ModuleID:  moduleID,
		Questions: questions,
		Answers:   answers,
	}, nil
}

// Current returns the question at the cursor.
func (s *Session) Current() api.PracticeQuestion {
	return s.Questions[s.Index]
}

// SelectAnswer records option as the answer for the current question.
// Re-answering overwrites; other positions are untouched and the cursor does
// not move. Out-of-range options are ignored.
func (s *Session) SelectAnswer(option int) {
	if option < 0 || option >= len(s.Current().Options) {
		return
	}
	s.Answers[s.Index] = option
}

// Next advances to the following question, or reports that the session is
// ready to submit when already on the last one. The cursor never moves past
// the last question.
func (s *Session) Next() (submit bool) {
	if s.Index < len(s.Questions)-1 {
		s.Index++
		return false
	}
	return true
}

// Previous steps back one question. No-op at the first question; recorded
// answers are never altered by navigation.
func (s *Session) Previous() {
	if s.Index > 0 {
		s.Index--
	}
}

// AnsweredCount returns how many questions have a recorded answer.
func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != Unanswered {
			n++
		}
	}
	return n
}
