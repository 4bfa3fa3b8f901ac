package dashboard

import (
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

const RecentActivityShown = 10

type Accuracy struct {
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type Subject struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Progress string `json:"progress"`
}

type Overview struct {
	Email          string              `json:"email"`
	Name           string              `json:"name"`
	ByType         map[string]Accuracy `json:"by_type"`
	ByDifficulty   map[string]Accuracy `json:"by_difficulty"`
	RecentActivity []profile.Event     `json:"recent_activity"`
	Subjects       []Subject           `json:"subjects"`
}

type ReviewedQuestion struct {
	question.Question
	Attempts    int  `json:"attempts"`
	LastCorrect bool `json:"last_correct"`
}

type PassageReview struct {
	PassageID string             `json:"passage_id"`
	Questions []ReviewedQuestion `json:"questions"`
}
