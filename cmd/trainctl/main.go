package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/mailmap/internal/store"
)

var (
	feedbackPath string
	logger       *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trainctl",
	Short: "Turn extraction feedback into training material",
	Long: "Reads a feedback JSONL file produced by the mailmap server and " +
		"derives few-shot prompt examples or fine-tuning files from it.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&feedbackPath, "feedback", "feedback.jsonl", "path to the feedback JSONL file")
}

func loadFeedback() (*store.FeedbackStore, error) {
	fs := store.NewFeedbackStore()
	n, err := fs.Load(feedbackPath)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", feedbackPath, err)
	}
	if n == 0 {
		logger.Warn("no feedback records loaded", zap.String("path", feedbackPath))
	}
	return fs, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
