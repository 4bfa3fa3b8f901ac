package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/cars-prep/internal/config"
)

const (
	DefaultLimit = 3
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var ErrEmptyFeed = errors.New("feed has no entries")

type Fetcher struct {
	client *http.Client
	parser *gofeed.Parser
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &Fetcher{client: client, parser: parser}
}

// Fetch reads the feed and turns its first limit entries into articles. An
// entry whose page cannot be fetched falls back to the content embedded in the
// feed; entries with no usable paragraphs are skipped.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string, limit int) ([]Article, error) {
	log := config.WithContext(ctx).WithField("feed", feedURL)
	if limit <= 0 {
		limit = DefaultLimit
	}

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, ErrEmptyFeed
	}
	log.Infof("Found %d entries in feed", len(feed.Items))

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		entryLog := log.WithFields(logrus.Fields{"title": item.Title, "link": item.Link})

		paragraphs, err := f.articleParagraphs(ctx, item.Link)
		if err != nil {
			entryLog.WithError(err).Warn("Falling back to feed content")
			paragraphs = feedParagraphs(item)
		}
		if len(paragraphs) == 0 {
			entryLog.Warn("Skipping entry without paragraphs")
			continue
		}

		a := Article{
			ID:      articleID(item),
			Title:   item.Title,
			URL:     item.Link,
			Journal: feed.Title,
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			a.Author = item.Authors[0].Name
		}
		if item.PublishedParsed != nil {
			a.Published = item.PublishedParsed
		}
		for _, p := range paragraphs {
			a.Paragraphs = append(a.Paragraphs, TaggedParagraph{Text: p, Tags: Tag(p)})
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func (f *Fetcher) articleParagraphs(ctx context.Context, link string) ([]string, error) {
	if link == "" {
		return nil, errors.New("entry has no link")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return ExtractParagraphs(resp.Body)
}

func feedParagraphs(item *gofeed.Item) []string {
	body := item.Content
	if body == "" {
		body = item.Description
	}
	if strings.Contains(body, "<p") {
		if ps, err := ExtractParagraphs(strings.NewReader(body)); err == nil && len(ps) > 0 {
			return ps
		}
	}
	return SplitPlainText(body)
}

// articleID is stable per link so re-ingesting a feed yields the same ids.
func articleID(item *gofeed.Item) string {
	key := item.Link
	if key == "" {
		key = item.GUID + item.Title
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()[:8]
}
