package study

import (
	"github.com/redis/go-redis/v9"

	"github.com/saulo-duarte/cars-prep/internal/performance"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

type Container struct {
	Engine   *Engine
	Sessions SessionStore
	Handler  *Handler
}

// NewContainer keeps rounds in redis when a client is given and in process
// memory otherwise.
func NewContainer(questions question.Repository, profiles profile.Repository, logger performance.Logger, rdb *redis.Client) *Container {
	var sessions SessionStore
	if rdb != nil {
		sessions = NewRedisStore(rdb)
	} else {
		sessions = NewMemoryStore()
	}

	engine := NewEngine(questions, profiles, logger)
	return &Container{
		Engine:   engine,
		Sessions: sessions,
		Handler:  NewHandler(engine, sessions),
	}
}
