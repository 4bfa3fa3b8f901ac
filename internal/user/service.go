package user

import (
	"context"

	"github.com/saulo-duarte/cars-prep/internal/auth"
	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/profile"
)

type Service interface {
	LoginURL(state string) string
	SignIn(ctx context.Context, code string) (*Identity, string, error)
	Me(ctx context.Context, claims *auth.Claims) (*MeResponse, error)
	Refresh(ctx context.Context, claims *auth.Claims) (string, error)
}

type service struct {
	provider IdentityProvider
	profiles profile.Service
}

func NewService(provider IdentityProvider, profiles profile.Service) Service {
	return &service{provider: provider, profiles: profiles}
}

func (s *service) LoginURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// SignIn completes the OAuth exchange, creates the profile on first sign-in
// and returns a signed session token.
func (s *service) SignIn(ctx context.Context, code string) (*Identity, string, error) {
	log := config.WithContext(ctx)

	id, err := s.provider.Identify(ctx, code)
	if err != nil {
		log.WithError(err).Warn("Google sign-in failed")
		return nil, "", err
	}

	if _, err := s.profiles.Ensure(ctx, id.ID, id.Email, id.Name); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateJWTWithEmail(id.ID, id.Email, auth.DefaultRole, auth.AccessTokenTTL)
	if err != nil {
		log.WithError(err).Error("Failed to sign session token")
		return nil, "", err
	}

	log.WithField("user_id", id.ID).Info("User signed in")
	return id, token, nil
}

func (s *service) Me(ctx context.Context, claims *auth.Claims) (*MeResponse, error) {
	p, err := s.profiles.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		ID:    claims.UserID,
		Email: p.Email,
		Name:  p.Name,
		Role:  claims.Role,
	}, nil
}

func (s *service) Refresh(ctx context.Context, claims *auth.Claims) (string, error) {
	token, err := auth.GenerateJWTWithEmail(claims.UserID, claims.Email, claims.Role, auth.AccessTokenTTL)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to refresh session token")
		return "", err
	}
	return token, nil
}
