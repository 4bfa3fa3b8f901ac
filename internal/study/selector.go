package study

import (
	"sort"

	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

const (
	MaxQuestions = 5
	WeakSetSize  = 2
)

// DefaultWeakTypes is used for a user with no history yet.
var DefaultWeakTypes = []string{"main idea", "inference"}

// Item is a question joined with the passage it belongs to, so a round can be
// rendered without going back to the stores.
type Item struct {
	question.Question
	FullPassage   []question.Paragraph `json:"full_passage"`
	PassageTitle  string               `json:"passage_title"`
	PassageSource string               `json:"passage_source"`
	LinkedText    string               `json:"linked_text,omitempty"`
}

// WeakTypes returns the WeakSetSize question types with the lowest accuracy.
// Equal accuracies are ordered by type name.
func WeakTypes(stats map[string]profile.TypeStats) []string {
	if len(stats) == 0 {
		return append([]string(nil), DefaultWeakTypes...)
	}

	types := make([]string, 0, len(stats))
	for t := range stats {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		ai, aj := stats[types[i]].Accuracy(), stats[types[j]].Accuracy()
		if ai != aj {
			return ai < aj
		}
		return types[i] < types[j]
	})

	if len(types) > WeakSetSize {
		types = types[:WeakSetSize]
	}
	return types
}

// Select walks the corpus in store order and keeps the first MaxQuestions
// questions of a weak type whose passage resolves.
func Select(stats map[string]profile.TypeStats, corpus *question.Corpus) []Item {
	weak := make(map[string]bool, WeakSetSize)
	for _, t := range WeakTypes(stats) {
		weak[t] = true
	}

	items := make([]Item, 0, MaxQuestions)
	for _, q := range corpus.Questions {
		if len(items) == MaxQuestions {
			break
		}
		if !weak[q.QuestionType] {
			continue
		}
		p, ok := corpus.Passage(q.PassageID)
		if !ok {
			continue
		}
		item := Item{
			Question:      q,
			FullPassage:   p.Paragraphs,
			PassageTitle:  p.Title,
			PassageSource: p.Journal,
		}
		if para, ok := q.LinkedParagraphOf(p); ok {
			item.LinkedText = para.Text
		}
		items = append(items, item)
	}
	return items
}
