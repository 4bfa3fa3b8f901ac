package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

func intPtr(v int) *int { return &v }

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestLogAndRecommend(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	dataDir, profileDir := t.TempDir(), t.TempDir()

	repo := question.NewRepository(dataDir)
	require.NoError(t, repo.AppendPassages([]question.Passage{{
		PassageID:           "p1",
		Title:               "Debate",
		Journal:             "The Review",
		EstimatedDifficulty: 2,
		Paragraphs:          []question.Paragraph{{Text: "x", RhetoricalPurpose: "counterpoint"}},
	}}))
	require.NoError(t, repo.AppendQuestions([]question.Question{{
		QuestionID:       "p1_q1",
		PassageID:        "p1",
		QuestionText:     "Which?",
		Choices:          map[string]string{"A": "a", "B": "b"},
		CorrectAnswer:    "A",
		QuestionType:     "counterpoint",
		Explanations:     map[string]string{"A": "a", "B": "b"},
		DifficultyRating: intPtr(7),
	}}))

	dirs := []string{"--data-dir", dataDir, "--profile-dir", profileDir}

	for range 3 {
		out, err := run(t, append([]string{"log", "u1", "p1_q1", "wrong"}, dirs...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "Logged p1_q1 (counterpoint, difficulty 7)")
	}

	p, err := profile.NewFileRepository(profileDir).Get("u1")
	require.NoError(t, err)
	assert.Equal(t, profile.TypeStats{Attempts: 3}, p.QuestionStats["counterpoint"])
	assert.Equal(t, profile.DifficultyStats{Seen: 3}, p.DifficultyStats["7"])

	out, err := run(t, append([]string{"recommend", "u1"}, dirs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "- counterpoint: 0% over 3 attempts")
	assert.Contains(t, out, "- p1: Debate | Difficulty: 2.0 | Source: The Review")

	_, err = run(t, append([]string{"log", "u1", "p1_q1", "maybe"}, dirs...)...)
	assert.Error(t, err)

	_, err = run(t, append([]string{"log", "u1", "p9_q1", "correct"}, dirs...)...)
	assert.ErrorContains(t, err, "not found")
}
