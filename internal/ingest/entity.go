package ingest

import (
	"strings"
	"time"
)

type TaggedParagraph struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// Article is one scraped feed entry, split into paragraphs long enough to
// carry an argument.
type Article struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	URL        string            `json:"url"`
	Author     string            `json:"author,omitempty"`
	Journal    string            `json:"journal,omitempty"`
	Published  *time.Time        `json:"published,omitempty"`
	Paragraphs []TaggedParagraph `json:"paragraphs"`
}

func (a Article) Text() string {
	texts := make([]string, len(a.Paragraphs))
	for i, p := range a.Paragraphs {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}
