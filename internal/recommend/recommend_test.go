package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
	"github.com/saulo-duarte/cars-prep/internal/recommend"
)

func passage(id string, difficulty float64, purposes ...string) question.Passage {
	p := question.Passage{PassageID: id, Title: "Passage " + id, EstimatedDifficulty: difficulty}
	for _, purpose := range purposes {
		p.Paragraphs = append(p.Paragraphs, question.Paragraph{Text: "x", RhetoricalPurpose: purpose})
	}
	return p
}

func TestWeakAreas(t *testing.T) {
	stats := map[string]profile.TypeStats{
		"inference":  {Attempts: 10, Correct: 3},
		"main idea":  {Attempts: 10, Correct: 9},
		"tone":       {Attempts: 2, Correct: 0},
		"function":   {Attempts: 4, Correct: 2},
		"strengthen": {Attempts: 10, Correct: 7},
	}

	weak := recommend.WeakAreas(stats)
	require.Len(t, weak, 2)
	assert.Equal(t, "inference", weak[0].QuestionType)
	assert.InDelta(t, 0.3, weak[0].Accuracy, 1e-9)
	assert.Equal(t, "function", weak[1].QuestionType)

	assert.Empty(t, recommend.WeakAreas(nil))
}

func TestPassages(t *testing.T) {
	weak := []recommend.WeakArea{{QuestionType: "counterpoint"}, {QuestionType: "support"}}

	t.Run("ScoreThenDifficulty", func(t *testing.T) {
		got := recommend.Passages(weak, []question.Passage{
			passage("easy-one", 1, "thesis", "support"),
			passage("hard-two", 4, "support", "counterpoint", "support"),
			passage("none", 1, "thesis", "conclusion"),
			passage("mid-two", 2, "Counterpoint", "supporting evidence"),
		})

		ids := make([]string, len(got))
		for i, r := range got {
			ids[i] = r.PassageID
		}
		assert.Equal(t, []string{"mid-two", "hard-two", "easy-one"}, ids)
		assert.Equal(t, 2, got[0].Score)
		assert.Equal(t, []string{"counterpoint", "support"}, got[1].MatchedPurposes)
	})

	t.Run("TopFive", func(t *testing.T) {
		var ps []question.Passage
		for i := range 8 {
			ps = append(ps, passage(string(rune('a'+i)), float64(8-i), "support"))
		}
		got := recommend.Passages(weak, ps)
		require.Len(t, got, recommend.MaxRecommendations)
		assert.Equal(t, "h", got[0].PassageID)
	})

	t.Run("NoWeakAreas", func(t *testing.T) {
		got := recommend.Passages(nil, []question.Passage{passage("a", 1, "support")})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestServiceRecommend(t *testing.T) {
	dir := t.TempDir()
	profiles := profile.NewFileRepository(dir)
	questions := question.NewRepository(dir)

	p := profile.New("u1", "u1@example.com", "U")
	p.QuestionStats["support"] = profile.TypeStats{Attempts: 5, Correct: 1}
	require.NoError(t, profiles.Save(p))
	require.NoError(t, questions.AppendPassages([]question.Passage{
		passage("p1", 3, "support"),
		passage("p2", 3, "thesis"),
	}))

	res, err := recommend.NewService(profiles, questions).Recommend(t.Context(), "u1")
	require.NoError(t, err)
	require.Len(t, res.WeakAreas, 1)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "p1", res.Recommendations[0].PassageID)

	_, err = recommend.NewService(profiles, questions).Recommend(t.Context(), "nobody")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}
