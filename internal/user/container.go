package user

import (
	"os"

	"github.com/saulo-duarte/cars-prep/internal/profile"
)

type UserContainer struct {
	Service Service
	Handler *Handler
}

func NewUserContainer(profiles profile.Service) *UserContainer {
	provider := NewGoogleProvider(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("GOOGLE_REDIRECT_URL"),
	)
	service := NewService(provider, profiles)

	return &UserContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
