package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const ArticlesFile = "articles.json"

func SaveArticles(path string, articles []Article) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create article dir: %w", err)
	}
	raw, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

func LoadArticles(path string) ([]Article, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var articles []Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return articles, nil
}
