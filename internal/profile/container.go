package profile

import "gorm.io/gorm"

type Container struct {
	Repo    Repository
	Service Service
}

// NewContainer prefers the database when one is connected and falls back to
// per-user JSON files under dir.
func NewContainer(db *gorm.DB, dir string) *Container {
	var repo Repository
	if db != nil {
		repo = NewGormRepository(db)
	} else {
		repo = NewFileRepository(dir)
	}

	return &Container{
		Repo:    repo,
		Service: NewService(repo),
	}
}
