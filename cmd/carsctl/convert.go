package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saulo-duarte/cars-prep/internal/aiquiz"
	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/ingest"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Turn articles into passages and passages into questions with an LLM",
}

var convertPassagesCmd = &cobra.Command{
	Use:   "passages",
	Short: "Annotate ingested articles and append them to the passage store",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		if in == "" {
			in = filepath.Join(dataDir(cmd), ingest.ArticlesFile)
		}
		articles, err := ingest.LoadArticles(in)
		if err != nil {
			return err
		}

		svc, repo, err := generator(cmd)
		if err != nil {
			return err
		}

		known, err := existingPassages(repo)
		if err != nil {
			return err
		}

		var converted []question.Passage
		for _, a := range articles {
			if known[a.ID] {
				fmt.Fprintf(cmd.OutOrStdout(), "skip %s (already converted)\n", a.ID)
				continue
			}
			p, err := svc.ConvertArticle(cmd.Context(), a)
			if err != nil {
				config.Logger.WithError(err).WithField("article_id", a.ID).Warn("Conversion failed")
				continue
			}
			converted = append(converted, *p)
		}

		if err := repo.AppendPassages(converted); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Appended %d passages\n", len(converted))
		return nil
	},
}

var convertQuestionsCmd = &cobra.Command{
	Use:   "questions [passage-id...]",
	Short: "Generate questions for passages and append them to the question store",
	Long:  "Generates questions for the given passages, or for every passage that has none yet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		svc, repo, err := generator(cmd)
		if err != nil {
			return err
		}

		passages, err := repo.ListPassages()
		if err != nil {
			return err
		}
		existing, err := repo.ListQuestions()
		if err != nil && !errors.Is(err, question.ErrMissingData) {
			return err
		}

		wanted := make(map[string]bool, len(args))
		for _, id := range args {
			wanted[id] = true
		}
		covered := make(map[string]bool)
		for _, q := range existing {
			covered[q.PassageID] = true
		}

		total := 0
		for _, p := range passages {
			if len(wanted) > 0 && !wanted[p.PassageID] {
				continue
			}
			if len(wanted) == 0 && covered[p.PassageID] {
				continue
			}

			generated, dropped, err := svc.GenerateQuestions(cmd.Context(), p, existing, count)
			if err != nil {
				config.Logger.WithError(err).WithField("passage_id", p.PassageID).Warn("Generation failed")
				continue
			}
			if err := repo.AppendQuestions(generated); err != nil {
				return err
			}
			existing = append(existing, generated...)
			total += len(generated)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions (%d dropped)\n", p.PassageID, len(generated), dropped)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Appended %d questions\n", total)
		return nil
	},
}

func init() {
	convertPassagesCmd.Flags().String("in", "", "Articles file (default <data-dir>/articles.json)")
	convertQuestionsCmd.Flags().Int("count", aiquiz.DefaultQuestionCount, "Questions per passage")

	convertCmd.AddCommand(convertPassagesCmd)
	convertCmd.AddCommand(convertQuestionsCmd)
}

func generator(cmd *cobra.Command) (aiquiz.Service, question.Repository, error) {
	provider, err := aiquiz.NewProvider(cmd.Context(), aiquiz.ProviderConfigFromEnv())
	if err != nil {
		return nil, nil, err
	}
	repo := question.NewRepository(dataDir(cmd))
	return aiquiz.NewService(provider, repo), repo, nil
}

func existingPassages(repo question.Repository) (map[string]bool, error) {
	passages, err := repo.ListPassages()
	if errors.Is(err, question.ErrMissingData) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(passages))
	for _, p := range passages {
		known[p.PassageID] = true
	}
	return known, nil
}
