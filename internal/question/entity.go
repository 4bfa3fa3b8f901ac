package question

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const DefaultDifficulty = 5

type Question struct {
	QuestionID       string            `json:"question_id"`
	PassageID        string            `json:"passage_id"`
	QuestionText     string            `json:"question_text"`
	Choices          map[string]string `json:"choices"`
	CorrectAnswer    string            `json:"correct_answer"`
	QuestionType     string            `json:"question_type"`
	TrapTypes        map[string]string `json:"trap_types,omitempty"`
	Explanations     map[string]string `json:"explanations"`
	LinkedParagraph  *int              `json:"linked_paragraph,omitempty"`
	DifficultyRating *int              `json:"difficulty_rating,omitempty"`
}

type Paragraph struct {
	Text              string `json:"text"`
	RhetoricalPurpose string `json:"rhetorical_purpose"`
	Tone              string `json:"tone"`
}

type Passage struct {
	PassageID           string      `json:"passage_id"`
	Title               string      `json:"title"`
	Journal             string      `json:"journal"`
	Author              string      `json:"author"`
	Text                string      `json:"text"`
	Paragraphs          []Paragraph `json:"paragraphs"`
	EstimatedDifficulty float64     `json:"estimated_difficulty"`
}

// Difficulty returns the rating, falling back to DefaultDifficulty when unset.
func (q Question) Difficulty() int {
	if q.DifficultyRating == nil {
		return DefaultDifficulty
	}
	return *q.DifficultyRating
}

// Labels returns the choice labels in display order (A, B, C, D...).
func (q Question) Labels() []string {
	labels := make([]string, 0, len(q.Choices))
	for l := range q.Choices {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func (q Question) HasChoice(label string) bool {
	_, ok := q.Choices[label]
	return ok
}

// LinkedParagraphOf resolves the 1-based linked paragraph against the passage.
func (q Question) LinkedParagraphOf(p Passage) (Paragraph, bool) {
	if q.LinkedParagraph == nil {
		return Paragraph{}, false
	}
	idx := *q.LinkedParagraph - 1
	if idx < 0 || idx >= len(p.Paragraphs) {
		return Paragraph{}, false
	}
	return p.Paragraphs[idx], true
}

// NextQuestionID derives the id for a new question of passageID as
// <passage_id>_q<n>, n being one past the highest ordinal already used.
func NextQuestionID(passageID string, existing []Question) string {
	prefix := passageID + "_q"
	highest := 0
	for _, q := range existing {
		if q.PassageID != passageID || !strings.HasPrefix(q.QuestionID, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(q.QuestionID, prefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%d", prefix, highest+1)
}
