package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRecord struct {
	UserID          string         `gorm:"type:text;primaryKey"`
	Email           string         `gorm:"type:text"`
	Name            string         `gorm:"type:text"`
	QuestionStats   datatypes.JSON `gorm:"type:jsonb;not null"`
	DifficultyStats datatypes.JSON `gorm:"type:jsonb;not null"`
	RecentActivity  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (profileRecord) TableName() string {
	return "user_profiles"
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&profileRecord{})
}

func (r *gormRepository) Get(userID string) (*UserProfile, error) {
	var rec profileRecord
	if err := r.db.First(&rec, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	p := &UserProfile{UserID: rec.UserID, Email: rec.Email, Name: rec.Name}
	if err := json.Unmarshal(rec.QuestionStats, &p.QuestionStats); err != nil {
		return nil, fmt.Errorf("%w: question_stats: %v", ErrProfileCorrupt, err)
	}
	if err := json.Unmarshal(rec.DifficultyStats, &p.DifficultyStats); err != nil {
		return nil, fmt.Errorf("%w: difficulty_stats: %v", ErrProfileCorrupt, err)
	}
	if err := json.Unmarshal(rec.RecentActivity, &p.RecentActivity); err != nil {
		return nil, fmt.Errorf("%w: recent_activity: %v", ErrProfileCorrupt, err)
	}
	p.normalize()
	return p, nil
}

func (r *gormRepository) Save(p *UserProfile) error {
	p.normalize()
	qs, err := json.Marshal(p.QuestionStats)
	if err != nil {
		return err
	}
	ds, err := json.Marshal(p.DifficultyStats)
	if err != nil {
		return err
	}
	ra, err := json.Marshal(p.RecentActivity)
	if err != nil {
		return err
	}

	rec := profileRecord{
		UserID:          p.UserID,
		Email:           p.Email,
		Name:            p.Name,
		QuestionStats:   datatypes.JSON(qs),
		DifficultyStats: datatypes.JSON(ds),
		RecentActivity:  datatypes.JSON(ra),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "question_stats", "difficulty_stats", "recent_activity", "updated_at"}),
	}).Create(&rec).Error
}
