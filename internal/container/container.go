package container

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/saulo-duarte/cars-prep/internal/aiquiz"
	"github.com/saulo-duarte/cars-prep/internal/auth"
	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/dashboard"
	"github.com/saulo-duarte/cars-prep/internal/performance"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
	"github.com/saulo-duarte/cars-prep/internal/study"
	"github.com/saulo-duarte/cars-prep/internal/user"
)

type Container struct {
	Questions            question.Repository
	ProfileContainer     *profile.Container
	PerformanceContainer *performance.Container
	StudyContainer       *study.Container
	UserContainer        *user.UserContainer
	DashboardContainer   *dashboard.Container
	AIQuizContainer      *aiquiz.AIQuizContainer
}

// New wires the application. Profiles and logs live in postgres when
// DATABASE_DSN is set and in per-user files otherwise; study rounds live in
// redis when REDIS_URL is set.
func New() *Container {
	ctx := context.Background()
	config.Init()
	auth.Init()

	db := connectDatabase(ctx)
	rdb := connectRedis(ctx)

	questions := question.NewRepository(config.App.DataDir)
	profileContainer := profile.NewContainer(db, config.App.ProfileDir)
	performanceContainer := performance.NewContainer(db, config.App.ProfileDir, profileContainer.Repo)
	studyContainer := study.NewContainer(questions, profileContainer.Repo, performanceContainer.Logger, rdb)

	return &Container{
		Questions:            questions,
		ProfileContainer:     profileContainer,
		PerformanceContainer: performanceContainer,
		StudyContainer:       studyContainer,
		UserContainer:        user.NewUserContainer(profileContainer.Service),
		DashboardContainer:   dashboard.NewContainer(profileContainer, performanceContainer.Logger, questions),
		AIQuizContainer:      aiquiz.NewAIQuizContainer(ctx, questions),
	}
}

func connectDatabase(ctx context.Context) *gorm.DB {
	if config.App.DatabaseDSN == "" {
		config.Logger.Info("DATABASE_DSN not set, using file stores")
		return nil
	}
	if err := config.Connect(ctx, config.App.DatabaseDSN); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := profile.AutoMigrate(config.DB); err != nil {
		log.Fatalf("failed to migrate profiles: %v", err)
	}
	if err := performance.AutoMigrate(config.DB); err != nil {
		log.Fatalf("failed to migrate performance events: %v", err)
	}
	return config.DB
}

func connectRedis(ctx context.Context) *redis.Client {
	if config.App.RedisURL == "" {
		return nil
	}
	config.InitCrypto()
	rdb, err := study.NewRedisClient(ctx, config.App.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	return rdb
}
