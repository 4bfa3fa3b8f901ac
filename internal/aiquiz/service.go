package aiquiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/ingest"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

var (
	ErrPassageNotFound = errors.New("passage not found")
	ErrMalformedOutput = errors.New("model returned malformed JSON")
	ErrNoParagraphs    = errors.New("model returned no paragraphs")
)

type Service interface {
	ConvertArticle(ctx context.Context, a ingest.Article) (*question.Passage, error)
	GenerateQuestions(ctx context.Context, p question.Passage, existing []question.Question, count int) ([]question.Question, int, error)
	Preview(ctx context.Context, req QuestionRequest) (*QuestionResponse, error)
}

type service struct {
	provider  Provider
	questions question.Repository
}

func NewService(provider Provider, questions question.Repository) Service {
	return &service{provider: provider, questions: questions}
}

// ConvertArticle asks the model to annotate an ingested article. The passage
// keeps the article id so conversions can be matched back to their source.
func (s *service) ConvertArticle(ctx context.Context, a ingest.Article) (*question.Passage, error) {
	log := config.WithContext(ctx).WithField("article_id", a.ID)

	raw, err := s.provider.SendPrompt(ctx, passageSystemPrompt, BuildPassagePrompt(a.Title, a.Text()))
	if err != nil {
		return nil, err
	}

	var analysis passageAnalysis
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &analysis); err != nil {
		log.WithError(err).Error("Failed to decode passage analysis")
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	paragraphs := make([]question.Paragraph, 0, len(analysis.Paragraphs))
	for _, p := range analysis.Paragraphs {
		if p.Text != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return nil, ErrNoParagraphs
	}

	passage := &question.Passage{
		PassageID:           a.ID,
		Title:               a.Title,
		Journal:             a.Journal,
		Author:              a.Author,
		Text:                a.Text(),
		Paragraphs:          paragraphs,
		EstimatedDifficulty: max(analysis.EstimatedDifficulty, 0),
	}
	if err := passage.Validate(); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"paragraphs": len(paragraphs), "topic": analysis.Topic}).Info("Converted article")
	return passage, nil
}

// GenerateQuestions returns the valid questions the model wrote for p, with
// ids continuing after existing. It also reports how many were dropped.
func (s *service) GenerateQuestions(ctx context.Context, p question.Passage, existing []question.Question, count int) ([]question.Question, int, error) {
	log := config.WithContext(ctx).WithField("passage_id", p.PassageID)
	count = clampCount(count)

	raw, err := s.provider.SendPrompt(ctx, questionSystemPrompt, BuildQuestionPrompt(p, count))
	if err != nil {
		return nil, 0, err
	}

	var batch questionBatch
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &batch); err != nil {
		log.WithError(err).Error("Failed to decode generated questions")
		return nil, 0, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	known := append([]question.Question(nil), existing...)
	out := make([]question.Question, 0, len(batch.Questions))
	dropped := 0
	for i, q := range batch.Questions {
		q.PassageID = p.PassageID
		q.QuestionID = question.NextQuestionID(p.PassageID, known)
		if err := q.Validate(); err != nil {
			log.WithError(err).WithField("index", i).Warn("Dropping invalid generated question")
			dropped++
			continue
		}
		known = append(known, q)
		out = append(out, q)
	}

	log.Infof("Generated %d questions (%d dropped)", len(out), dropped)
	return out, dropped, nil
}

func (s *service) Preview(ctx context.Context, req QuestionRequest) (*QuestionResponse, error) {
	passage, err := s.questions.GetPassage(req.PassageID)
	if err != nil {
		return nil, err
	}
	if passage == nil {
		return nil, ErrPassageNotFound
	}

	existing, err := s.questions.QuestionsByPassage(req.PassageID)
	if err != nil && !errors.Is(err, question.ErrMissingData) {
		return nil, err
	}

	generated, dropped, err := s.GenerateQuestions(ctx, *passage, existing, req.Count)
	if err != nil {
		return nil, err
	}
	return &QuestionResponse{PassageID: passage.PassageID, Questions: generated, Dropped: dropped}, nil
}

func clampCount(n int) int {
	if n <= 0 {
		return DefaultQuestionCount
	}
	return min(n, MaxQuestionCount)
}
