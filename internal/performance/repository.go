package performance

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/profile"
)

const LogFile = "user_logs.jsonl"

// LogRepository is the append-only event trail. Entries are never rewritten.
type LogRepository interface {
	Append(userID string, e profile.Event) error
	List(userID string) ([]profile.Event, error)
}

type fileLogRepository struct {
	dir string
	mu  sync.Mutex
}

func NewFileLogRepository(dir string) LogRepository {
	return &fileLogRepository{dir: dir}
}

func (r *fileLogRepository) Append(userID string, e profile.Event) error {
	dir, err := profile.UserDir(r.dir, userID)
	if err != nil {
		return err
	}
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append log: %w", err)
	}
	return f.Close()
}

// List returns events oldest first. A user without a log has no events.
func (r *fileLogRepository) List(userID string) ([]profile.Event, error) {
	dir, err := profile.UserDir(r.dir, userID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, LogFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var events []profile.Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e profile.Event
		if err := json.Unmarshal(line, &e); err != nil {
			config.Logger.WithError(err).WithField("user_id", userID).Warn("Skipping malformed log line")
			continue
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return events, nil
}
