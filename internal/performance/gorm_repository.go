package performance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/cars-prep/internal/profile"
)

type eventRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       string    `gorm:"type:text;not null;index"`
	QuestionID   string    `gorm:"type:text;not null;index"`
	QuestionType string    `gorm:"type:text;not null"`
	Difficulty   int       `gorm:"not null"`
	WasCorrect   bool      `gorm:"not null"`
	Timestamp    time.Time `gorm:"not null;index"`
}

func (eventRecord) TableName() string {
	return "performance_events"
}

type gormLogRepository struct {
	db *gorm.DB
}

func NewGormLogRepository(db *gorm.DB) LogRepository {
	return &gormLogRepository{db: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&eventRecord{})
}

func (r *gormLogRepository) Append(userID string, e profile.Event) error {
	return r.db.Create(&eventRecord{
		ID:           uuid.New(),
		UserID:       userID,
		QuestionID:   e.QuestionID,
		QuestionType: e.QuestionType,
		Difficulty:   e.Difficulty,
		WasCorrect:   e.WasCorrect,
		Timestamp:    e.Timestamp,
	}).Error
}

func (r *gormLogRepository) List(userID string) ([]profile.Event, error) {
	var recs []eventRecord
	if err := r.db.
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	events := make([]profile.Event, 0, len(recs))
	for _, rec := range recs {
		events = append(events, profile.Event{
			QuestionID:   rec.QuestionID,
			QuestionType: rec.QuestionType,
			Difficulty:   rec.Difficulty,
			WasCorrect:   rec.WasCorrect,
			Timestamp:    rec.Timestamp,
		})
	}
	return events, nil
}
