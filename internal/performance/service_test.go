package performance_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/cars-prep/internal/performance"
	"github.com/saulo-duarte/cars-prep/internal/profile"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newLogger(dir string) performance.Logger {
	return performance.NewLoggerWithClock(
		profile.NewFileRepository(dir),
		performance.NewFileLogRepository(dir),
		func() time.Time { return fixedNow },
	)
}

func TestLogInitializesMissingProfile(t *testing.T) {
	dir := t.TempDir()
	l := newLogger(dir)

	e, err := l.Log(t.Context(), "u1", performance.Result{QuestionID: "p1_q1", QuestionType: "inference", Difficulty: 7, WasCorrect: true})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, e.Timestamp)

	p, err := profile.NewFileRepository(dir).Get("u1")
	require.NoError(t, err)
	assert.Equal(t, profile.TypeStats{Attempts: 1, Correct: 1}, p.QuestionStats["inference"])
	assert.Equal(t, profile.DifficultyStats{Seen: 1, Correct: 1}, p.DifficultyStats["7"])
	assert.Equal(t, profile.DifficultyStats{}, p.DifficultyStats["1"])
	require.Len(t, p.RecentActivity, 1)
	assert.Equal(t, "p1_q1", p.RecentActivity[0].QuestionID)
}

func TestLogIsNotIdempotent(t *testing.T) {
	dir := t.TempDir()
	l := newLogger(dir)

	for _, correct := range []bool{false, true, false} {
		_, err := l.Log(t.Context(), "u1", performance.Result{QuestionID: "p1_q1", QuestionType: "tone", Difficulty: 5, WasCorrect: correct})
		require.NoError(t, err)
	}

	p, err := profile.NewFileRepository(dir).Get("u1")
	require.NoError(t, err)
	assert.Equal(t, profile.TypeStats{Attempts: 3, Correct: 1}, p.QuestionStats["tone"])

	events, err := l.History(t.Context(), "u1")
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestLogWritesOneLinePerCall(t *testing.T) {
	dir := t.TempDir()
	l := newLogger(dir)

	_, err := l.Log(t.Context(), "u1", performance.Result{QuestionID: "p1_q1", QuestionType: "tone", Difficulty: 5, WasCorrect: true})
	require.NoError(t, err)
	_, err = l.Log(t.Context(), "u1", performance.Result{QuestionID: "p1_q2", QuestionType: "inference", Difficulty: 3})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "u1", performance.LogFile))
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "p1_q2", lines[1]["question_id"])
	assert.Equal(t, false, lines[1]["was_correct"])
	assert.Equal(t, "2026-05-04T09:30:00Z", lines[1]["timestamp"])
}

func TestLogCapsRecentActivity(t *testing.T) {
	dir := t.TempDir()
	l := newLogger(dir)

	for i := 0; i < profile.MaxRecentActivity+1; i++ {
		id := "first"
		if i == profile.MaxRecentActivity {
			id = "last"
		}
		_, err := l.Log(t.Context(), "u1", performance.Result{QuestionID: id, QuestionType: "tone", Difficulty: 5})
		require.NoError(t, err)
	}

	p, err := profile.NewFileRepository(dir).Get("u1")
	require.NoError(t, err)
	assert.Len(t, p.RecentActivity, profile.MaxRecentActivity)
	assert.Equal(t, "last", p.RecentActivity[0].QuestionID)
	assert.Equal(t, profile.MaxRecentActivity+1, p.QuestionStats["tone"].Attempts)
}

func TestLogFailsOnCorruptProfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "u1"), 0o755))
	path := filepath.Join(dir, "u1", profile.ProfileFile)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := newLogger(dir).Log(t.Context(), "u1", performance.Result{QuestionID: "p1_q1", QuestionType: "tone", Difficulty: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, performance.ErrPersistence))
	assert.True(t, errors.Is(err, profile.ErrProfileCorrupt))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(raw))

	_, err = os.Stat(filepath.Join(dir, "u1", performance.LogFile))
	assert.True(t, os.IsNotExist(err))
}

func TestHistoryWithoutLog(t *testing.T) {
	events, err := newLogger(t.TempDir()).History(t.Context(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, events)
}

type failingLog struct {
	performance.LogRepository
	failures int
}

func (l *failingLog) Append(userID string, e profile.Event) error {
	if l.failures > 0 {
		l.failures--
		return errors.New("disk full")
	}
	return l.LogRepository.Append(userID, e)
}

func TestLogRestoresProfileWhenAppendFails(t *testing.T) {
	dir := t.TempDir()
	profiles := profile.NewFileRepository(dir)
	events := &failingLog{LogRepository: performance.NewFileLogRepository(dir), failures: 1}
	l := performance.NewLoggerWithClock(profiles, events, func() time.Time { return fixedNow })

	_, err := l.Log(t.Context(), "u1", performance.Result{QuestionID: "p1_q1", QuestionType: "tone", Difficulty: 5, WasCorrect: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, performance.ErrPersistence)

	p, err := profiles.Get("u1")
	require.NoError(t, err)
	assert.Empty(t, p.QuestionStats)
	assert.Empty(t, p.RecentActivity)
	assert.Equal(t, profile.DifficultyStats{}, p.DifficultyStats["5"])

	_, err = l.Log(t.Context(), "u1", performance.Result{QuestionID: "p1_q1", QuestionType: "tone", Difficulty: 5, WasCorrect: true})
	require.NoError(t, err)

	p, err = profiles.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, profile.TypeStats{Attempts: 1, Correct: 1}, p.QuestionStats["tone"])
	assert.Len(t, p.RecentActivity, 1)

	history, err := l.History(t.Context(), "u1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
