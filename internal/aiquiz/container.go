package aiquiz

import (
	"context"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

type AIQuizContainer struct {
	Service Service
	Handler *Handler
}

// NewAIQuizContainer leaves Service nil when no provider can be built, so the
// API still starts without LLM credentials.
func NewAIQuizContainer(ctx context.Context, questions question.Repository) *AIQuizContainer {
	cfg := ProviderConfigFromEnv()
	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		config.Logger.WithError(err).WithField("provider", cfg.Name).Warn("Question generation disabled")
		return &AIQuizContainer{Handler: NewHandler(nil)}
	}

	service := NewService(provider, questions)
	return &AIQuizContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
