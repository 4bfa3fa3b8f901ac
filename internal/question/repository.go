package question

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
	"github.com/sirupsen/logrus"
)

const (
	QuestionFile = "questions.jsonl"
	PassageFile  = "passages.jsonl"
)

var ErrMissingData = errors.New("required data store is missing")

// Corpus is one snapshot of both stores, read together at study start.
type Corpus struct {
	Questions []Question
	Passages  map[string]Passage
}

func (c *Corpus) Passage(id string) (Passage, bool) {
	p, ok := c.Passages[id]
	return p, ok
}

type Repository interface {
	LoadCorpus() (*Corpus, error)
	ListQuestions() ([]Question, error)
	ListPassages() ([]Passage, error)
	GetPassage(id string) (*Passage, error)
	QuestionsByPassage(passageID string) ([]Question, error)
	AppendQuestions(questions []Question) error
	AppendPassages(passages []Passage) error
}

type fileRepository struct {
	dir string
	mu  sync.Mutex
}

func NewRepository(dir string) Repository {
	return &fileRepository{dir: dir}
}

func (r *fileRepository) LoadCorpus() (*Corpus, error) {
	questions, err := r.ListQuestions()
	if err != nil {
		return nil, err
	}
	passages, err := r.ListPassages()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Passage, len(passages))
	for _, p := range passages {
		byID[p.PassageID] = p
	}
	return &Corpus{Questions: questions, Passages: byID}, nil
}

func (r *fileRepository) ListQuestions() ([]Question, error) {
	var out []Question
	err := r.scan(QuestionFile, func(line []byte) error {
		q, err := DecodeQuestion(line)
		if err != nil {
			return err
		}
		out = append(out, q)
		return nil
	})
	return out, err
}

func (r *fileRepository) ListPassages() ([]Passage, error) {
	var out []Passage
	err := r.scan(PassageFile, func(line []byte) error {
		p, err := DecodePassage(line)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// GetPassage returns nil, nil when no passage carries the id.
func (r *fileRepository) GetPassage(id string) (*Passage, error) {
	passages, err := r.ListPassages()
	if err != nil {
		return nil, err
	}
	for i := range passages {
		if passages[i].PassageID == id {
			return &passages[i], nil
		}
	}
	return nil, nil
}

func (r *fileRepository) QuestionsByPassage(passageID string) ([]Question, error) {
	questions, err := r.ListQuestions()
	if err != nil {
		return nil, err
	}
	var out []Question
	for _, q := range questions {
		if q.PassageID == passageID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fileRepository) AppendQuestions(questions []Question) error {
	lines := make([][]byte, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
		raw, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("encode question %s: %w", q.QuestionID, err)
		}
		lines = append(lines, raw)
	}
	return r.appendLines(QuestionFile, lines)
}

func (r *fileRepository) AppendPassages(passages []Passage) error {
	lines := make([][]byte, 0, len(passages))
	for _, p := range passages {
		if err := p.Validate(); err != nil {
			return err
		}
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode passage %s: %w", p.PassageID, err)
		}
		lines = append(lines, raw)
	}
	return r.appendLines(PassageFile, lines)
}

// scan feeds every non-blank line to fn. Lines fn rejects are logged and
// skipped so one bad record never hides the rest of the store.
func (r *fileRepository) scan(name string, fn func([]byte) error) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingData, path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			config.Logger.WithError(err).WithFields(logrus.Fields{
				"file": name,
				"line": lineNo,
			}).Warn("Skipping malformed record")
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func (r *fileRepository) appendLines(name string, lines [][]byte) error {
	if len(lines) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(r.dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
