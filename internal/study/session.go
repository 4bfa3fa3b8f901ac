package study

import (
	"fmt"
	"strings"
	"time"
)

type Mode string

const (
	ModeImmediate Mode = "immediate"
	ModeDeferred  Mode = "deferred"
)

var Modes = []Mode{ModeImmediate, ModeDeferred}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeImmediate, ModeDeferred:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusReviewing  Status = "reviewing"
	StatusComplete   Status = "complete"
)

// AnswerMeta holds what was measured for one index. A nil TimeTaken means
// nothing was measured, which is different from zero seconds.
type AnswerMeta struct {
	TimeTaken  *float64 `json:"time_taken,omitempty"`
	Confidence string   `json:"confidence,omitempty"`
}

// Session is the whole state of one study round. Engine operations take it
// and mutate it in place; callers persist it through a SessionStore between
// requests.
type Session struct {
	ID          string            `json:"id"`
	Status      Status            `json:"status"`
	Mode        Mode              `json:"feedback_mode"`
	Questions   []Item            `json:"questions"`
	Index       int               `json:"index"`
	Answers     []string          `json:"answers"`
	AnswersMeta []AnswerMeta      `json:"answers_meta"`
	PresentedAt map[int]time.Time `json:"presented_at,omitempty"`
	Logged      map[int]bool      `json:"logged,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
}

func (s *Session) Len() int {
	return len(s.Questions)
}

// Answer returns the submitted label for i, if any.
func (s *Session) Answer(i int) (string, bool) {
	if i < 0 || i >= len(s.Answers) || s.Answers[i] == "" {
		return "", false
	}
	return s.Answers[i], true
}

func (s *Session) Finished() bool {
	return s.Status == StatusReviewing || s.Status == StatusComplete
}

func (s *Session) reached(i int) bool {
	if _, ok := s.Answer(i); ok {
		return true
	}
	_, ok := s.PresentedAt[i]
	return ok
}

func (s *Session) setAnswer(i int, label string) {
	for len(s.Answers) <= i {
		s.Answers = append(s.Answers, "")
	}
	s.Answers[i] = label
}

func (s *Session) meta(i int) *AnswerMeta {
	for len(s.AnswersMeta) <= i {
		s.AnswersMeta = append(s.AnswersMeta, AnswerMeta{})
	}
	return &s.AnswersMeta[i]
}

func (s *Session) advanceTo(i int) {
	if i > s.Index {
		s.Index = min(i, len(s.Questions))
	}
}
