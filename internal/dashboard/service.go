package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/saulo-duarte/cars-prep/internal/performance"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

type Service interface {
	Overview(ctx context.Context, userID string) (*Overview, error)
	ReviewPassage(ctx context.Context, userID, passageID string) (*PassageReview, error)
}

type service struct {
	profiles  profile.Service
	history   performance.Logger
	questions question.Repository
}

func NewService(profiles profile.Service, history performance.Logger, questions question.Repository) Service {
	return &service{profiles: profiles, history: history, questions: questions}
}

func (s *service) Overview(ctx context.Context, userID string) (*Overview, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	o := &Overview{
		Email:          p.Email,
		Name:           p.Name,
		ByType:         make(map[string]Accuracy, len(p.QuestionStats)),
		ByDifficulty:   make(map[string]Accuracy, len(p.DifficultyStats)),
		RecentActivity: p.RecentActivity[:min(len(p.RecentActivity), RecentActivityShown)],
	}

	var attempts, correct int
	for qType, st := range p.QuestionStats {
		o.ByType[qType] = Accuracy{Attempts: st.Attempts, Correct: st.Correct, Accuracy: round(st.Accuracy())}
		attempts += st.Attempts
		correct += st.Correct
	}
	for bucket, st := range p.DifficultyStats {
		acc := float64(st.Correct) / float64(max(st.Seen, 1))
		o.ByDifficulty[bucket] = Accuracy{Attempts: st.Seen, Correct: st.Correct, Accuracy: round(acc)}
	}

	overall := float64(correct) / float64(max(attempts, 1))
	o.Subjects = []Subject{{ID: "cars", Name: "CARS", Progress: fmt.Sprintf("%.0f%%", overall*100)}}
	return o, nil
}

// ReviewPassage lists the questions of passageID that appear in the user's
// log, in store order.
func (s *service) ReviewPassage(ctx context.Context, userID, passageID string) (*PassageReview, error) {
	events, err := s.history.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.QuestionsByPassage(passageID)
	if err != nil {
		return nil, err
	}

	type tally struct {
		attempts int
		last     bool
	}
	seen := make(map[string]*tally)
	for _, e := range events {
		t, ok := seen[e.QuestionID]
		if !ok {
			t = &tally{}
			seen[e.QuestionID] = t
		}
		t.attempts++
		t.last = e.WasCorrect
	}

	review := &PassageReview{PassageID: passageID, Questions: []ReviewedQuestion{}}
	for _, q := range questions {
		if t, ok := seen[q.QuestionID]; ok {
			review.Questions = append(review.Questions, ReviewedQuestion{Question: q, Attempts: t.attempts, LastCorrect: t.last})
		}
	}
	return review, nil
}

func round(x float64) float64 {
	return math.Round(x*100) / 100
}
