package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Harshitk-cp/mailmap/internal/service"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write feedback as fine-tuning files",
	Long: `Serializes the full feedback set into training files, one JSONL file
per requested format. Formats are written independently; a failure in
one leaves the others intact.

Formats:
  jsonl      generic record format with the parsed correction attached
  openai     chat messages format
  anthropic  prompt/completion format

Examples:
  # All three formats into ./training
  trainctl export --output-dir training

  # Chat format only
  trainctl export --formats openai`,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.String("formats", "jsonl,openai,anthropic", "comma-separated formats to write")
	f.String("output-dir", ".", "directory for the training files")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	fs, err := loadFeedback()
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetString("formats")
	var formats []service.ExportFormat
	for _, s := range strings.Split(raw, ",") {
		name := strings.TrimSpace(s)
		if !service.ValidExportFormat(name) {
			return fmt.Errorf("unknown format %q", name)
		}
		formats = append(formats, service.ExportFormat(name))
	}

	dir, _ := cmd.Flags().GetString("output-dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	results := service.NewTrainingExporter(fs, logger).Export(dir, formats)

	failed := 0
	for _, res := range results {
		if res.Success {
			fmt.Printf("%-10s %4d records  %s\n", res.Format, res.RecordCount, res.Path)
		} else {
			failed++
			fmt.Printf("%-10s FAILED: %s\n", res.Format, res.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d formats failed", failed, len(results))
	}
	return nil
}
