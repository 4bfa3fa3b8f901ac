package study_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/study"
)

// Runs against a real server only when TEST_REDIS_URL is set.
func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	t.Setenv("CRYPTO_KEY", "0123456789abcdef0123456789abcdef")
	config.InitCrypto()

	client, err := study.NewRedisClient(t.Context(), url)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store := study.NewRedisStore(client)
	userID := "redis-test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { store.Clear(context.Background(), userID) })

	tt := 1.25
	s := &study.Session{
		ID:          "abc",
		Status:      study.StatusInProgress,
		Mode:        study.ModeImmediate,
		Answers:     []string{"B"},
		AnswersMeta: []study.AnswerMeta{{TimeTaken: &tt, Confidence: "high"}},
	}
	require.NoError(t, store.Save(t.Context(), userID, s))

	raw, err := client.Get(t.Context(), "study:session:"+userID).Result()
	require.NoError(t, err)
	assert.NotContains(t, raw, "high", "payload is encrypted at rest")

	loaded, err := store.Load(t.Context(), userID)
	require.NoError(t, err)
	assert.Equal(t, s.AnswersMeta, loaded.AnswersMeta)

	require.NoError(t, store.Clear(t.Context(), userID))
	_, err = store.Load(t.Context(), userID)
	assert.ErrorIs(t, err, study.ErrNoSession)
}
