package aiquiz

import "github.com/saulo-duarte/cars-prep/internal/question"

const (
	DefaultQuestionCount = 5
	MaxQuestionCount     = 10
)

type QuestionRequest struct {
	PassageID string `json:"passage_id"`
	Count     int    `json:"count"`
}

type QuestionResponse struct {
	PassageID string              `json:"passage_id"`
	Questions []question.Question `json:"questions"`
	Dropped   int                 `json:"dropped"`
}

// passageAnalysis is what the model returns when annotating an article.
type passageAnalysis struct {
	Paragraphs          []question.Paragraph `json:"paragraphs"`
	Topic               string               `json:"topic"`
	Style               string               `json:"style"`
	EstimatedDifficulty float64              `json:"estimated_difficulty"`
}

type questionBatch struct {
	Questions []question.Question `json:"questions"`
}
