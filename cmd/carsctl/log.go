package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/saulo-duarte/cars-prep/internal/performance"
)

var logCmd = &cobra.Command{
	Use:   "log <user-id> <question-id> <correct|wrong>",
	Short: "Record one answered question for a user",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, questionID := args[0], args[1]

		var correct bool
		switch args[2] {
		case "correct", "y", "yes", "true":
			correct = true
		case "wrong", "n", "no", "false":
		default:
			return fmt.Errorf("result must be correct or wrong, got %q", args[2])
		}

		s, err := openStores(cmd)
		if err != nil {
			return err
		}
		questions, err := s.questions.ListQuestions()
		if err != nil {
			return err
		}

		for _, q := range questions {
			if q.QuestionID != questionID {
				continue
			}
			e, err := s.logger.Log(cmd.Context(), userID, performance.Result{
				QuestionID:   q.QuestionID,
				QuestionType: q.QuestionType,
				Difficulty:   q.Difficulty(),
				WasCorrect:   correct,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%s, difficulty %d) at %s\n",
				e.QuestionID, e.QuestionType, e.Difficulty, e.Timestamp.Format(time.RFC3339))
			return nil
		}
		return fmt.Errorf("question %q not found", questionID)
	},
}
