package performance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/sirupsen/logrus"
)

var ErrPersistence = errors.New("performance could not be recorded")

type Result struct {
	QuestionID   string
	QuestionType string
	Difficulty   int
	WasCorrect   bool
}

// Logger records answered questions. Every call is a new attempt, so calling
// it twice for the same question counts twice.
type Logger interface {
	Log(ctx context.Context, userID string, res Result) (profile.Event, error)
	History(ctx context.Context, userID string) ([]profile.Event, error)
}

type logger struct {
	profiles profile.Repository
	events   LogRepository
	now      func() time.Time
}

func NewLogger(profiles profile.Repository, events LogRepository) Logger {
	return &logger{profiles: profiles, events: events, now: time.Now}
}

func NewLoggerWithClock(profiles profile.Repository, events LogRepository, now func() time.Time) Logger {
	return &logger{profiles: profiles, events: events, now: now}
}

func (l *logger) Log(ctx context.Context, userID string, res Result) (profile.Event, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id":     userID,
		"question_id": res.QuestionID,
	})

	p, err := l.profiles.Get(userID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(userID, "", "")
	case err != nil:
		log.WithError(err).Error("Refusing to log against an unreadable profile")
		return profile.Event{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	e := profile.Event{
		QuestionID:   res.QuestionID,
		QuestionType: res.QuestionType,
		Difficulty:   res.Difficulty,
		WasCorrect:   res.WasCorrect,
		Timestamp:    l.now().UTC(),
	}
	before := p.Clone()
	p.Apply(e)

	if err := l.profiles.Save(p); err != nil {
		log.WithError(err).Error("Failed to save profile")
		return profile.Event{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	// The profile only keeps the attempt once the log has it too, so a retry
	// after a failed append does not count it twice.
	if err := l.events.Append(userID, e); err != nil {
		log.WithError(err).Error("Failed to append performance log")
		if rbErr := l.profiles.Save(before); rbErr != nil {
			log.WithError(rbErr).Error("Failed to restore profile after log failure")
			return profile.Event{}, fmt.Errorf("%w: %w", ErrPersistence, errors.Join(err, rbErr))
		}
		return profile.Event{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.WithField("was_correct", res.WasCorrect).Debug("Performance logged")
	return e, nil
}

func (l *logger) History(ctx context.Context, userID string) ([]profile.Event, error) {
	events, err := l.events.List(userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("user_id", userID).Error("Failed to read performance log")
		return nil, err
	}
	return events, nil
}
