package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/store"
	"go.uber.org/zap"
)

type ExportFormat string

const (
	FormatJSONL     ExportFormat = "jsonl"
	FormatOpenAI    ExportFormat = "openai"
	FormatAnthropic ExportFormat = "anthropic"
)

func ValidExportFormat(f string) bool {
	switch ExportFormat(f) {
	case FormatJSONL, FormatOpenAI, FormatAnthropic:
		return true
	}
	return false
}

// FormatResult reports one format's export outcome. Formats are written
// independently; one failure never blocks the others.
type FormatResult struct {
	Format      ExportFormat `json:"format"`
	Success     bool         `json:"success"`
	Path        string       `json:"path,omitempty"`
	RecordCount int          `json:"record_count"`
	Error       string       `json:"error,omitempty"`
}

const systemInstruction = "You review entities and relationships extracted from a user's outbound email. " +
	"Given the email context and one extraction, judge whether the extraction is correct and, " +
	"if it is not, state what should have been extracted instead, or that nothing should have been."

// TrainingExporter serializes feedback into training files: a generic
// JSONL record format, an OpenAI-style chat format, and an
// Anthropic-style prompt/completion format.
type TrainingExporter struct {
	store  *store.FeedbackStore
	logger *zap.Logger
}

func NewTrainingExporter(feedback *store.FeedbackStore, logger *zap.Logger) *TrainingExporter {
	return &TrainingExporter{store: feedback, logger: logger}
}

type trainingRecord struct {
	Kind       domain.FeedbackKind       `json:"kind"`
	Context    domain.FeedbackContext    `json:"context"`
	Extracted  domain.ExtractedItem      `json:"extracted"`
	Judgment   domain.Judgment           `json:"judgment"`
	Correction string                    `json:"correction,omitempty"`
	Parsed     *domain.CorrectExtraction `json:"parsed_correction,omitempty"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatExample struct {
	Messages []chatTurn `json:"messages"`
}

type promptExample struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// Export writes each requested format into dir. Every format gets its own
// result; a file-system failure in one format leaves the others intact.
func (e *TrainingExporter) Export(dir string, formats []ExportFormat) []FormatResult {
	records := e.store.List()
	results := make([]FormatResult, 0, len(formats))

	for _, format := range formats {
		res := FormatResult{Format: format}

		path := filepath.Join(dir, fmt.Sprintf("training_%s.jsonl", format))
		n, err := e.writeFormat(path, format, records)
		if err != nil {
			res.Error = err.Error()
			e.logger.Warn("training export failed", zap.String("format", string(format)), zap.Error(err))
		} else {
			res.Success = true
			res.Path = path
			res.RecordCount = n
			e.logger.Info("training export written", zap.String("path", path), zap.Int("records", n))
		}
		results = append(results, res)
	}

	return results
}

func (e *TrainingExporter) writeFormat(path string, format ExportFormat, records []domain.FeedbackRecord) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	count := 0
	for _, rec := range records {
		var row any
		switch format {
		case FormatJSONL:
			row = genericRow(rec)
		case FormatOpenAI:
			row = chatExample{Messages: []chatTurn{
				{Role: "system", Content: systemInstruction},
				{Role: "user", Content: userTurn(rec)},
				{Role: "assistant", Content: assistantTurn(rec)},
			}}
		case FormatAnthropic:
			row = promptExample{
				Prompt:     systemInstruction + "\n\nHuman: " + userTurn(rec) + "\n\nAssistant:",
				Completion: " " + assistantTurn(rec),
			}
		default:
			return count, fmt.Errorf("unknown export format %q", format)
		}

		if err := enc.Encode(row); err != nil {
			return count, fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
		count++
	}

	return count, nil
}

func genericRow(rec domain.FeedbackRecord) trainingRecord {
	row := trainingRecord{
		Kind:       rec.Kind,
		Context:    rec.Context,
		Extracted:  rec.Extracted,
		Judgment:   rec.Judgment,
		Correction: rec.Correction,
	}
	if rec.Judgment == domain.JudgmentNegative {
		switch rec.Kind {
		case domain.FeedbackKindEntity:
			row.Parsed = ParseEntityCorrection(rec.Correction, domain.EntityType(rec.Extracted.Type))
		case domain.FeedbackKindRelationship:
			row.Parsed, _ = ParseRelationshipCorrection(rec.Correction, domain.RelationshipType(rec.Extracted.Type))
		}
	}
	return row
}

func userTurn(rec domain.FeedbackRecord) string {
	var b strings.Builder
	b.WriteString("Email context:\n")
	if rec.Context.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", rec.Context.Subject)
	}
	if rec.Context.From != "" {
		fmt.Fprintf(&b, "From: %s\n", rec.Context.From)
	}
	if rec.Context.Snippet != "" {
		fmt.Fprintf(&b, "Snippet: %s\n", rec.Context.Snippet)
	}

	switch rec.Kind {
	case domain.FeedbackKindRelationship:
		fmt.Fprintf(&b, "\nExtracted relationship: %s %s %s",
			rec.Extracted.FromValue, rec.Extracted.Type, rec.Extracted.ToValue)
	default:
		fmt.Fprintf(&b, "\nExtracted %s entity: %q", rec.Extracted.Type, rec.Extracted.Value)
	}
	b.WriteString("\nIs this extraction correct?")
	return b.String()
}

func assistantTurn(rec domain.FeedbackRecord) string {
	if rec.Judgment == domain.JudgmentPositive {
		return "The extraction is correct."
	}

	switch rec.Kind {
	case domain.FeedbackKindEntity:
		correct := ParseEntityCorrection(rec.Correction, domain.EntityType(rec.Extracted.Type))
		if correct == nil {
			return "The extraction is incorrect. Nothing should have been extracted here."
		}
		return fmt.Sprintf("The extraction is incorrect. It should have been the %s entity %q.", correct.Type, correct.Value)
	default:
		correct, _ := ParseRelationshipCorrection(rec.Correction, domain.RelationshipType(rec.Extracted.Type))
		if correct == nil {
			return "The extraction is incorrect. Nothing should have been extracted here."
		}
		return fmt.Sprintf("The extraction is incorrect. It should have been: %s %s %s.",
			correct.FromValue, correct.RelType, correct.ToValue)
	}
}
