package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saulo-duarte/cars-prep/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <user-id>",
	Short: "List passages that target a user's weakest question types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStores(cmd)
		if err != nil {
			return err
		}

		res, err := recommend.NewService(s.profiles.Repo, s.questions).Recommend(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(res.WeakAreas) == 0 {
			fmt.Fprintln(out, "No weak areas yet. Keep practicing.")
			return nil
		}
		fmt.Fprintln(out, "Weak areas:")
		for _, w := range res.WeakAreas {
			fmt.Fprintf(out, "- %s: %.0f%% over %d attempts\n", w.QuestionType, w.Accuracy*100, w.Attempts)
		}
		fmt.Fprintln(out, "\nRecommended passages:")
		for _, r := range res.Recommendations {
			fmt.Fprintf(out, "- %s: %s | Difficulty: %.1f | Source: %s\n", r.PassageID, r.Title, r.EstimatedDifficulty, r.Journal)
		}
		return nil
	},
}
