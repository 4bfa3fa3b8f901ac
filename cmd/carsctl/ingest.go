package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saulo-duarte/cars-prep/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <feed-url>",
	Short: "Fetch articles from an RSS feed and tag their paragraphs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = filepath.Join(dataDir(cmd), ingest.ArticlesFile)
		}

		articles, err := ingest.NewFetcher(nil).Fetch(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		if err := ingest.SaveArticles(out, articles); err != nil {
			return err
		}

		for _, a := range articles {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d paragraphs)\n", a.ID, a.Title, len(a.Paragraphs))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d articles to %s\n", len(articles), out)
		return nil
	},
}

func init() {
	ingestCmd.Flags().Int("limit", ingest.DefaultLimit, "Number of feed entries to fetch")
	ingestCmd.Flags().String("out", "", "Output file (default <data-dir>/articles.json)")
}
