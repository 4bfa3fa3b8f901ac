package performance

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/cars-prep/internal/profile"
)

type Container struct {
	Logger Logger
}

func NewContainer(db *gorm.DB, dir string, profiles profile.Repository) *Container {
	var events LogRepository
	if db != nil {
		events = NewGormLogRepository(db)
	} else {
		events = NewFileLogRepository(dir)
	}

	return &Container{
		Logger: NewLogger(profiles, events),
	}
}
