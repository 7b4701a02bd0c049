package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/service"
)

var fewshotCmd = &cobra.Command{
	Use:   "fewshot",
	Short: "Derive few-shot examples from negative feedback",
	Long: `Converts negative feedback records into (incorrect, correct) example
pairs by parsing each record's correction text. Output is one JSON
example per line, suitable for splicing into a classifier prompt.

Examples:
  # All derivable examples
  trainctl fewshot --feedback feedback.jsonl

  # Only corrected entity mistakes, newest 20
  trainctl fewshot --kinds entity --require-correction --max 20`,
	RunE: runFewshot,
}

func init() {
	f := fewshotCmd.Flags()
	f.Int("max", 0, "maximum number of examples (0=no limit)")
	f.Bool("require-correction", false, "skip records without correction text")
	f.String("kinds", "", "comma-separated kinds: entity,relationship")
	f.String("types", "", "comma-separated entity/relationship types to keep")
	f.String("since", "", "only records at or after this date (2006-01-02)")
	f.String("until", "", "only records at or before this date (2006-01-02)")
	f.String("output", "", "output file path (default: stdout)")

	rootCmd.AddCommand(fewshotCmd)
}

func runFewshot(cmd *cobra.Command, _ []string) error {
	fs, err := loadFeedback()
	if err != nil {
		return err
	}

	opts, err := fewshotOptions(cmd)
	if err != nil {
		return err
	}

	examples := service.NewFewShotGenerator(fs, logger).Generate(opts)

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	for _, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "wrote %d examples\n", len(examples))
	return nil
}

func fewshotOptions(cmd *cobra.Command) (service.FewShotOptions, error) {
	f := cmd.Flags()

	var opts service.FewShotOptions
	opts.MaxExamples, _ = f.GetInt("max")
	opts.RequireCorrection, _ = f.GetBool("require-correction")

	if kinds, _ := f.GetString("kinds"); kinds != "" {
		for _, k := range strings.Split(kinds, ",") {
			kind := domain.FeedbackKind(strings.TrimSpace(k))
			if !domain.ValidFeedbackKind(string(kind)) {
				return opts, fmt.Errorf("unknown kind %q", k)
			}
			opts.Kinds = append(opts.Kinds, kind)
		}
	}
	if types, _ := f.GetString("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			opts.Types = append(opts.Types, strings.TrimSpace(t))
		}
	}

	var err error
	if since, _ := f.GetString("since"); since != "" {
		if opts.Since, err = time.Parse("2006-01-02", since); err != nil {
			return opts, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if until, _ := f.GetString("until"); until != "" {
		if opts.Until, err = time.Parse("2006-01-02", until); err != nil {
			return opts, fmt.Errorf("invalid --until: %w", err)
		}
	}

	return opts, nil
}
