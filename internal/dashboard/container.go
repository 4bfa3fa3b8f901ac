package dashboard

import (
	"github.com/saulo-duarte/cars-prep/internal/performance"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
	"github.com/saulo-duarte/cars-prep/internal/recommend"
)

type Container struct {
	Service Service
	Handler *Handler
}

func NewContainer(profiles *profile.Container, history performance.Logger, questions question.Repository) *Container {
	service := NewService(profiles.Service, history, questions)
	recommender := recommend.NewService(profiles.Repo, questions)
	return &Container{
		Service: service,
		Handler: NewHandler(service, recommender),
	}
}
