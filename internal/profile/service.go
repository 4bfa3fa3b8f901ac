package profile

import (
	"context"
	"errors"

	"github.com/saulo-duarte/cars-prep/internal/config"
)

type Service interface {
	Get(ctx context.Context, userID string) (*UserProfile, error)
	// Ensure creates the profile on first sign-in and leaves an existing one
	// untouched.
	Ensure(ctx context.Context, userID, email, name string) (*UserProfile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, userID string) (*UserProfile, error) {
	p, err := s.repo.Get(userID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		config.WithContext(ctx).WithError(err).WithField("user_id", userID).Error("Failed to read profile")
	}
	return p, err
}

func (s *service) Ensure(ctx context.Context, userID, email, name string) (*UserProfile, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	p, err := s.repo.Get(userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		log.WithError(err).Error("Existing profile could not be read")
		return nil, err
	}

	p = New(userID, email, name)
	if err := s.repo.Save(p); err != nil {
		log.WithError(err).Error("Failed to create profile")
		return nil, err
	}
	log.Info("Profile created")
	return p, nil
}
