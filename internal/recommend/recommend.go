package recommend

import (
	"sort"
	"strings"

	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

const (
	MinAttempts        = 3
	WeakThreshold      = 0.7
	MaxRecommendations = 5
)

type WeakArea struct {
	QuestionType string  `json:"question_type"`
	Attempts     int     `json:"attempts"`
	Accuracy     float64 `json:"accuracy"`
}

type Recommendation struct {
	PassageID           string   `json:"passage_id"`
	Title               string   `json:"title"`
	Journal             string   `json:"journal"`
	EstimatedDifficulty float64  `json:"estimated_difficulty"`
	Score               int      `json:"score"`
	MatchedPurposes     []string `json:"matched_purposes"`
}

// WeakAreas returns the types attempted at least MinAttempts times with an
// accuracy under WeakThreshold, weakest first.
func WeakAreas(stats map[string]profile.TypeStats) []WeakArea {
	var out []WeakArea
	for qType, s := range stats {
		if s.Attempts < MinAttempts {
			continue
		}
		if acc := s.Accuracy(); acc < WeakThreshold {
			out = append(out, WeakArea{QuestionType: qType, Attempts: s.Attempts, Accuracy: acc})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy < out[j].Accuracy
		}
		return out[i].QuestionType < out[j].QuestionType
	})
	return out
}

// Passages scores each passage by how many distinct paragraph purposes
// mention a weak type and keeps the best MaxRecommendations, easier passages
// first on equal score.
func Passages(weak []WeakArea, passages []question.Passage) []Recommendation {
	if len(weak) == 0 {
		return []Recommendation{}
	}

	var out []Recommendation
	for _, p := range passages {
		matched := map[string]bool{}
		for _, para := range p.Paragraphs {
			if para.RhetoricalPurpose != "" && mentionsAny(para.RhetoricalPurpose, weak) {
				matched[para.RhetoricalPurpose] = true
			}
		}
		if len(matched) == 0 {
			continue
		}

		purposes := make([]string, 0, len(matched))
		for purpose := range matched {
			purposes = append(purposes, purpose)
		}
		sort.Strings(purposes)

		out = append(out, Recommendation{
			PassageID:           p.PassageID,
			Title:               p.Title,
			Journal:             p.Journal,
			EstimatedDifficulty: p.EstimatedDifficulty,
			Score:               len(matched),
			MatchedPurposes:     purposes,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].EstimatedDifficulty < out[j].EstimatedDifficulty
	})
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}

func mentionsAny(purpose string, weak []WeakArea) bool {
	purpose = strings.ToLower(purpose)
	for _, w := range weak {
		if strings.Contains(purpose, strings.ToLower(w.QuestionType)) {
			return true
		}
	}
	return false
}
