package study

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/performance"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

// Placeholder is shown for a value that was never measured.
const Placeholder = "-"

var (
	ErrMissingData     = errors.New("study data is missing")
	ErrSessionFinished = errors.New("study round is finished")
	ErrInvalidIndex    = errors.New("question index out of range")
	ErrInvalidChoice   = errors.New("answer is not one of the choices")
	ErrInvalidMode     = errors.New("unknown feedback mode")
	ErrEmptyConfidence = errors.New("confidence label is required")
)

// Feedback is what immediate mode reveals right after an answer.
type Feedback struct {
	Index         int               `json:"index"`
	Selected      string            `json:"selected"`
	CorrectAnswer string            `json:"correct_answer"`
	IsCorrect     bool              `json:"is_correct"`
	Explanations  map[string]string `json:"explanations"`
	TrapTypes     map[string]string `json:"trap_types,omitempty"`
	TimeTaken     *float64          `json:"time_taken,omitempty"`
}

type Result struct {
	Index           int                  `json:"index"`
	QuestionID      string               `json:"question_id"`
	QuestionType    string               `json:"question_type"`
	QuestionText    string               `json:"question_text"`
	Choices         map[string]string    `json:"choices"`
	CorrectAnswer   string               `json:"correct_answer"`
	Selected        string               `json:"selected"`
	Answered        bool                 `json:"answered"`
	IsCorrect       bool                 `json:"is_correct"`
	Explanations    map[string]string    `json:"explanations"`
	TrapTypes       map[string]string    `json:"trap_types,omitempty"`
	LinkedParagraph *int                 `json:"linked_paragraph,omitempty"`
	LinkedText      string               `json:"linked_text,omitempty"`
	FullPassage     []question.Paragraph `json:"full_passage"`
	TimeTaken       string               `json:"time_taken"`
	Confidence      string               `json:"confidence"`
}

type Engine struct {
	questions question.Repository
	profiles  profile.Repository
	logger    performance.Logger
	now       func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(questions question.Repository, profiles profile.Repository, logger performance.Logger, opts ...Option) *Engine {
	e := &Engine{
		questions: questions,
		profiles:  profiles,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start builds a new round for userID. Nothing is created when the profile or
// either store is missing.
func (e *Engine) Start(ctx context.Context, userID string, mode Mode) (*Session, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	p, err := e.profiles.Get(userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrMissingData, err)
		}
		return nil, err
	}

	corpus, err := e.questions.LoadCorpus()
	if err != nil {
		if errors.Is(err, question.ErrMissingData) {
			return nil, fmt.Errorf("%w: %w", ErrMissingData, err)
		}
		return nil, err
	}

	s := &Session{
		ID:          uuid.NewString(),
		Status:      StatusInProgress,
		Mode:        mode,
		Questions:   Select(p.QuestionStats, corpus),
		Index:       0,
		Answers:     []string{},
		AnswersMeta: []AnswerMeta{},
		PresentedAt: map[int]time.Time{},
		Logged:      map[int]bool{},
		StartedAt:   e.now().UTC(),
	}

	log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"mode":       mode,
		"questions":  len(s.Questions),
	}).Info("Study round started")
	return s, nil
}

// Present marks question i as shown and starts its timer. Asking for an index
// past the end moves the round to review and returns ErrSessionFinished.
func (e *Engine) Present(s *Session, i int) (*Item, error) {
	if i < 0 {
		return nil, ErrInvalidIndex
	}
	if i >= len(s.Questions) {
		s.advanceTo(len(s.Questions))
		if s.Status != StatusComplete {
			s.Status = StatusReviewing
		}
		return nil, ErrSessionFinished
	}

	if s.PresentedAt == nil {
		s.PresentedAt = map[int]time.Time{}
	}
	s.PresentedAt[i] = e.now()
	s.advanceTo(i)
	if s.Status == StatusNotStarted {
		s.Status = StatusInProgress
	}
	return &s.Questions[i], nil
}

// Submit records label as the answer to question i. Immediate mode returns
// feedback and leaves the index alone; deferred mode moves the index past i
// and returns nil feedback.
func (e *Engine) Submit(s *Session, i int, label string) (*Feedback, error) {
	if s.Finished() || i >= len(s.Questions) {
		return nil, ErrSessionFinished
	}
	if i < 0 {
		return nil, ErrInvalidIndex
	}
	q := s.Questions[i]
	if !q.HasChoice(label) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, label)
	}

	s.setAnswer(i, label)
	meta := s.meta(i)
	if started, ok := s.PresentedAt[i]; ok {
		elapsed := math.Max(e.now().Sub(started).Seconds(), 0)
		rounded := math.Round(elapsed*100) / 100
		meta.TimeTaken = &rounded
		delete(s.PresentedAt, i)
	}

	if s.Mode == ModeDeferred {
		s.advanceTo(i + 1)
		if s.Index >= len(s.Questions) {
			s.Status = StatusReviewing
		}
		return nil, nil
	}

	return &Feedback{
		Index:         i,
		Selected:      label,
		CorrectAnswer: q.CorrectAnswer,
		IsCorrect:     label == q.CorrectAnswer,
		Explanations:  q.Explanations,
		TrapTypes:     q.TrapTypes,
		TimeTaken:     meta.TimeTaken,
	}, nil
}

// RecordConfidence sets the confidence label for i in any order, before or
// after the answer.
func (e *Engine) RecordConfidence(s *Session, i int, label string) error {
	if i < 0 || i >= len(s.Questions) {
		return ErrInvalidIndex
	}
	if label == "" {
		return ErrEmptyConfidence
	}
	s.meta(i).Confidence = label
	return nil
}

// Review scores every question of the round and completes it. The first
// review of a round logs one performance event per question the user reached;
// later reviews only re-render. A logging failure is returned and the events
// already written are not written again on retry.
func (e *Engine) Review(ctx context.Context, userID string, s *Session) ([]Result, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": s.ID,
	})

	results := make([]Result, len(s.Questions))
	for i, q := range s.Questions {
		selected, answered := s.Answer(i)
		r := Result{
			Index:           i,
			QuestionID:      q.QuestionID,
			QuestionType:    q.QuestionType,
			QuestionText:    q.QuestionText,
			Choices:         q.Choices,
			CorrectAnswer:   q.CorrectAnswer,
			Selected:        selected,
			Answered:        answered,
			IsCorrect:       answered && selected == q.CorrectAnswer,
			Explanations:    q.Explanations,
			TrapTypes:       q.TrapTypes,
			LinkedParagraph: q.LinkedParagraph,
			LinkedText:      q.LinkedText,
			FullPassage:     q.FullPassage,
			TimeTaken:       Placeholder,
			Confidence:      Placeholder,
		}
		if !answered {
			r.Selected = Placeholder
		}
		if i < len(s.AnswersMeta) {
			m := s.AnswersMeta[i]
			if m.TimeTaken != nil {
				r.TimeTaken = strconv.FormatFloat(*m.TimeTaken, 'f', 2, 64)
			}
			if m.Confidence != "" {
				r.Confidence = m.Confidence
			}
		}
		results[i] = r
	}

	if s.Status == StatusComplete {
		return results, nil
	}
	s.advanceTo(len(s.Questions))
	s.Status = StatusReviewing

	if s.Logged == nil {
		s.Logged = map[int]bool{}
	}
	for i, q := range s.Questions {
		if s.Logged[i] || !s.reached(i) {
			continue
		}
		_, err := e.logger.Log(ctx, userID, performance.Result{
			QuestionID:   q.QuestionID,
			QuestionType: q.QuestionType,
			Difficulty:   q.Difficulty(),
			WasCorrect:   results[i].IsCorrect,
		})
		if err != nil {
			log.WithError(err).WithField("question_id", q.QuestionID).Error("Failed to log performance")
			return nil, err
		}
		s.Logged[i] = true
	}

	s.Status = StatusComplete
	log.WithField("logged", len(s.Logged)).Info("Study round reviewed")
	return results, nil
}
