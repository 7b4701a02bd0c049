package service

import (
	"strings"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/store"
	"go.uber.org/zap"
)

const deleteToken = "delete"

// ParseEntityCorrection interprets free-text entity corrections.
// "DELETE" (any case) means the item should not have been extracted and
// yields nil. "type:value" with a recognized type token corrects both
// fields; any other text is the corrected value with the original type
// retained.
func ParseEntityCorrection(text string, originalType domain.EntityType) *domain.CorrectExtraction {
	text = strings.TrimSpace(text)
	if text == "" || strings.ToLower(text) == deleteToken {
		return nil
	}

	if i := strings.Index(text, ":"); i >= 0 {
		typ := strings.ToLower(strings.TrimSpace(text[:i]))
		value := strings.TrimSpace(text[i+1:])
		if correctionEntityType(typ) && value != "" {
			return &domain.CorrectExtraction{Type: typ, Value: value}
		}
	}

	return &domain.CorrectExtraction{Type: string(originalType), Value: text}
}

// correctionEntityType reports whether a correction's type prefix is
// usable. Reviewers commonly write "company" for organizations, so that
// token is accepted and kept as written.
func correctionEntityType(t string) bool {
	return t == "company" || domain.ValidEntityType(t)
}

// ParseRelationshipCorrection interprets free-text relationship
// corrections. "DELETE" or an empty string means the edge should not have
// been extracted. Otherwise the first "->" splits source from target; if
// the pre-arrow text starts with a known relationship type followed by
// more tokens, that token corrects the type. Text with no "->" is
// unparseable and treated as a deletion, with a diagnostic note — this
// fallback may discard an intended correction and is deliberately
// surfaced rather than silent.
func ParseRelationshipCorrection(text string, originalType domain.RelationshipType) (correct *domain.CorrectExtraction, note string) {
	text = strings.TrimSpace(text)
	if text == "" || strings.ToLower(text) == deleteToken {
		return nil, ""
	}

	i := strings.Index(text, "->")
	if i < 0 {
		return nil, "correction has no '->'; treated as should-not-extract: " + text
	}

	pre := strings.TrimSpace(text[:i])
	target := strings.TrimSpace(text[i+2:])

	relType := string(originalType)
	source := pre
	if tokens := strings.Fields(pre); len(tokens) >= 2 && domain.ValidRelationshipType(tokens[0]) {
		relType = tokens[0]
		source = strings.Join(tokens[1:], " ")
	}

	return &domain.CorrectExtraction{
		RelType:   relType,
		FromValue: source,
		ToValue:   target,
	}, ""
}

// FewShotOptions filters which negative feedback becomes examples.
type FewShotOptions struct {
	MaxExamples       int
	RequireCorrection bool
	Since             time.Time
	Until             time.Time
	Kinds             []domain.FeedbackKind
	Types             []string
}

func (o FewShotOptions) wantsKind(k domain.FeedbackKind) bool {
	if len(o.Kinds) == 0 {
		return true
	}
	for _, kind := range o.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func (o FewShotOptions) wantsType(t string) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, typ := range o.Types {
		if strings.EqualFold(typ, t) {
			return true
		}
	}
	return false
}

// FewShotGenerator converts accumulated negative feedback into
// (wrong, right) example pairs via the correction grammar. Examples are
// derived fresh on every call; nothing is stored.
type FewShotGenerator struct {
	store  *store.FeedbackStore
	logger *zap.Logger
}

func NewFewShotGenerator(feedback *store.FeedbackStore, logger *zap.Logger) *FewShotGenerator {
	return &FewShotGenerator{store: feedback, logger: logger}
}

func (g *FewShotGenerator) Generate(opts FewShotOptions) []domain.FewShotExample {
	var examples []domain.FewShotExample
	for _, rec := range g.store.List() {
		if rec.Judgment != domain.JudgmentNegative {
			continue
		}
		if !opts.wantsKind(rec.Kind) || !opts.wantsType(rec.Extracted.Type) {
			continue
		}
		if opts.RequireCorrection && strings.TrimSpace(rec.Correction) == "" {
			continue
		}
		if !opts.Since.IsZero() && rec.Timestamp.Before(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && rec.Timestamp.After(opts.Until) {
			continue
		}

		ex, ok := g.toExample(rec)
		if !ok {
			continue
		}
		examples = append(examples, ex)
	}

	// List is ascending by timestamp, so the cap keeps the newest.
	if opts.MaxExamples > 0 && len(examples) > opts.MaxExamples {
		examples = examples[len(examples)-opts.MaxExamples:]
	}
	return examples
}

func (g *FewShotGenerator) toExample(rec domain.FeedbackRecord) (domain.FewShotExample, bool) {
	ex := domain.FewShotExample{
		Kind:      rec.Kind,
		Context:   rec.Context,
		Incorrect: rec.Extracted,
	}

	switch rec.Kind {
	case domain.FeedbackKindEntity:
		if rec.Extracted.Value == "" {
			return ex, false
		}
		ex.Correct = ParseEntityCorrection(rec.Correction, domain.EntityType(rec.Extracted.Type))
	case domain.FeedbackKindRelationship:
		if rec.Extracted.FromValue == "" && rec.Extracted.ToValue == "" {
			return ex, false
		}
		correct, note := ParseRelationshipCorrection(rec.Correction, domain.RelationshipType(rec.Extracted.Type))
		ex.Correct = correct
		ex.Note = note
		if note != "" {
			g.logger.Warn("unparseable relationship correction",
				zap.String("feedback_id", rec.ID),
				zap.String("correction", rec.Correction))
		}
	default:
		return ex, false
	}

	return ex, true
}
