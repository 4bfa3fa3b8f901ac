package main

import (
	"context"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/saulo-duarte/cars-prep/internal/config"
	"github.com/saulo-duarte/cars-prep/internal/performance"
	"github.com/saulo-duarte/cars-prep/internal/profile"
	"github.com/saulo-duarte/cars-prep/internal/question"
)

var rootCmd = &cobra.Command{
	Use:          "carsctl",
	Short:        "Batch jobs for the CARS study corpus",
	Long:         "carsctl ingests articles, converts them into passages and questions, and works with user performance data.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Init()
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding passages.jsonl and questions.jsonl (overrides DATA_DIR)")
	rootCmd.PersistentFlags().String("profile-dir", "", "Directory holding per-user profiles and logs (overrides PROFILE_DIR)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(recommendCmd)
}

func dataDir(cmd *cobra.Command) string {
	if d, _ := cmd.Flags().GetString("data-dir"); d != "" {
		return d
	}
	return config.App.DataDir
}

func profileDir(cmd *cobra.Command) string {
	if d, _ := cmd.Flags().GetString("profile-dir"); d != "" {
		return d
	}
	return config.App.ProfileDir
}

type stores struct {
	questions question.Repository
	profiles  *profile.Container
	logger    performance.Logger
}

// openStores mirrors the API wiring: postgres when DATABASE_DSN is set,
// per-user files otherwise.
func openStores(cmd *cobra.Command) (*stores, error) {
	var db *gorm.DB
	if config.App.DatabaseDSN != "" {
		if err := config.Connect(cmd.Context(), config.App.DatabaseDSN); err != nil {
			return nil, err
		}
		db = config.DB
	}

	profiles := profile.NewContainer(db, profileDir(cmd))
	perf := performance.NewContainer(db, profileDir(cmd), profiles.Repo)
	return &stores{
		questions: question.NewRepository(dataDir(cmd)),
		profiles:  profiles,
		logger:    perf.Logger,
	}, nil
}
