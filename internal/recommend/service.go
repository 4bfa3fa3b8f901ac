package recommend

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

type Result struct {
	WeakAreas       []WeakArea       `json:"weak_areas"`
	Recommendations []Recommendation `json:"recommendations"`
}

type Service interface {
	Recommend(ctx context.Context, userID string) (*Result, error)
}

type service struct {
	profiles  profile.Repository
	questions question.Repository
}

func NewService(profiles profile.Repository, questions question.Repository) Service {
	return &service{profiles: profiles, questions: questions}
}

func (s *service) Recommend(ctx context.Context, userID string) (*Result, error) {
	p, err := s.profiles.Get(userID)
	if err != nil {
		return nil, err
	}
	passages, err := s.questions.ListPassages()
	if err != nil {
		return nil, err
	}

	weak := WeakAreas(p.QuestionStats)
	if weak == nil {
		weak = []WeakArea{}
	}
	res := &Result{WeakAreas: weak, Recommendations: Passages(weak, passages)}

	config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id":         userID,
		"weak_areas":      len(res.WeakAreas),
		"recommendations": len(res.Recommendations),
	}).Debug("Built recommendations")
	return res, nil
}
