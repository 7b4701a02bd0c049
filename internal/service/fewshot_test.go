package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/store"
	"go.uber.org/zap"
)

func TestParseEntityCorrection_Delete(t *testing.T) {
	for _, text := range []string{"DELETE", "delete", "Delete", "", "  "} {
		if got := ParseEntityCorrection(text, domain.EntityTypePerson); got != nil {
			t.Fatalf("expected nil for %q, got %+v", text, got)
		}
	}
}

func TestParseEntityCorrection_TypedForm(t *testing.T) {
	got := ParseEntityCorrection("organization:Acme Corp", domain.EntityTypePerson)
	if got == nil {
		t.Fatal("expected a correction")
	}
	if got.Type != "organization" || got.Value != "Acme Corp" {
		t.Fatalf("expected type and value corrected, got %+v", got)
	}
}

func TestParseEntityCorrection_CompanyToken(t *testing.T) {
	got := ParseEntityCorrection("company:Acme", domain.EntityTypePerson)
	if got == nil {
		t.Fatal("expected a correction")
	}
	if got.Type != "company" || got.Value != "Acme" {
		t.Fatalf("expected type company value Acme, got %+v", got)
	}
}

func TestParseEntityCorrection_UnknownTypeKeepsWholeText(t *testing.T) {
	got := ParseEntityCorrection("vendor:Acme", domain.EntityTypePerson)
	if got == nil {
		t.Fatal("expected a correction")
	}
	if got.Type != "person" || got.Value != "vendor:Acme" {
		t.Fatalf("expected whole text as value with original type, got %+v", got)
	}
}

func TestParseEntityCorrection_PlainValue(t *testing.T) {
	got := ParseEntityCorrection("Jane Smith", domain.EntityTypePerson)
	if got == nil || got.Type != "person" || got.Value != "Jane Smith" {
		t.Fatalf("expected corrected value with original type, got %+v", got)
	}
}

func TestParseRelationshipCorrection_Delete(t *testing.T) {
	for _, text := range []string{"DELETE", "", "delete"} {
		got, note := ParseRelationshipCorrection(text, domain.RelWorksWith)
		if got != nil || note != "" {
			t.Fatalf("expected clean nil for %q, got %+v note %q", text, got, note)
		}
	}
}

func TestParseRelationshipCorrection_WithType(t *testing.T) {
	got, note := ParseRelationshipCorrection("WORKS_FOR Jane -> Acme", domain.RelWorksWith)
	if note != "" {
		t.Fatalf("unexpected note %q", note)
	}
	if got == nil {
		t.Fatal("expected a correction")
	}
	if got.RelType != "WORKS_FOR" || got.FromValue != "Jane" || got.ToValue != "Acme" {
		t.Fatalf("unexpected correction: %+v", got)
	}
}

func TestParseRelationshipCorrection_WithoutTypeKeepsOriginal(t *testing.T) {
	got, _ := ParseRelationshipCorrection("Jane -> Acme", domain.RelWorksWith)
	if got == nil {
		t.Fatal("expected a correction")
	}
	if got.RelType != "WORKS_WITH" || got.FromValue != "Jane" || got.ToValue != "Acme" {
		t.Fatalf("expected original type retained, got %+v", got)
	}
}

func TestParseRelationshipCorrection_LeadingTokenNotAType(t *testing.T) {
	got, _ := ParseRelationshipCorrection("Jane Smith -> Acme", domain.RelWorksFor)
	if got == nil {
		t.Fatal("expected a correction")
	}
	if got.RelType != "WORKS_FOR" || got.FromValue != "Jane Smith" {
		t.Fatalf("expected multi-token source kept whole, got %+v", got)
	}
}

func TestParseRelationshipCorrection_NoArrowIsUnparseable(t *testing.T) {
	got, note := ParseRelationshipCorrection("Jane works for Acme", domain.RelWorksWith)
	if got != nil {
		t.Fatalf("expected nil correction, got %+v", got)
	}
	if note == "" {
		t.Fatal("expected a diagnostic note")
	}
}

func newFewShotFixture() (*FewShotGenerator, *store.FeedbackStore) {
	fs := store.NewFeedbackStore()
	return NewFewShotGenerator(fs, zap.NewNop()), fs
}

func TestFewShot_OnlyNegativeFeedback(t *testing.T) {
	gen, fs := newFewShotFixture()
	fs.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Jane", Type: "person"},
		domain.JudgmentPositive, domain.FeedbackContext{}, "")
	fs.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Newsletter", Type: "person"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "DELETE")

	examples := gen.Generate(FewShotOptions{})
	if len(examples) != 1 {
		t.Fatalf("expected only the negative record, got %d examples", len(examples))
	}
	if examples[0].Correct != nil {
		t.Fatal("expected DELETE to yield a should-not-extract example")
	}
}

func TestFewShot_KindAndTypeFilters(t *testing.T) {
	gen, fs := newFewShotFixture()
	fs.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Acme", Type: "organization"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "Acme Corp")
	fs.Record(domain.FeedbackKindRelationship,
		domain.ExtractedItem{Type: "WORKS_WITH", FromValue: "Jane", ToValue: "Acme"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "WORKS_FOR Jane -> Acme")

	entityOnly := gen.Generate(FewShotOptions{Kinds: []domain.FeedbackKind{domain.FeedbackKindEntity}})
	if len(entityOnly) != 1 || entityOnly[0].Kind != domain.FeedbackKindEntity {
		t.Fatalf("expected only entity examples, got %+v", entityOnly)
	}

	orgOnly := gen.Generate(FewShotOptions{Types: []string{"organization"}})
	if len(orgOnly) != 1 || orgOnly[0].Incorrect.Type != "organization" {
		t.Fatalf("expected only organization examples, got %+v", orgOnly)
	}
}

func TestFewShot_RequireCorrection(t *testing.T) {
	gen, fs := newFewShotFixture()
	fs.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Acme", Type: "organization"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "")
	fs.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Acme", Type: "person"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "organization:Acme")

	examples := gen.Generate(FewShotOptions{RequireCorrection: true})
	if len(examples) != 1 {
		t.Fatalf("expected 1 example with correction text, got %d", len(examples))
	}
	if examples[0].Correct == nil || examples[0].Correct.Type != "organization" {
		t.Fatalf("unexpected correction: %+v", examples[0].Correct)
	}
}

func TestFewShot_MaxExamplesKeepsNewest(t *testing.T) {
	gen, fs := newFewShotFixture()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var lines bytes.Buffer
	for i := 0; i < 5; i++ {
		rec := domain.FeedbackRecord{
			ID:         fmt.Sprintf("fb-%d", i),
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			Kind:       domain.FeedbackKindEntity,
			Extracted:  domain.ExtractedItem{Value: fmt.Sprintf("v%d", i), Type: "tool"},
			Judgment:   domain.JudgmentNegative,
			Correction: "DELETE",
		}
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatal(err)
		}
		lines.Write(data)
		lines.WriteByte('\n')
	}
	if _, err := fs.LoadLines(lines.Bytes()); err != nil {
		t.Fatalf("load: %v", err)
	}

	got := gen.Generate(FewShotOptions{MaxExamples: 3})
	if len(got) != 3 {
		t.Fatalf("expected 3 examples, got %d", len(got))
	}
	for i, ex := range got {
		if want := fmt.Sprintf("v%d", i+2); ex.Incorrect.Value != want {
			t.Fatalf("expected the newest records kept, got %q at index %d", ex.Incorrect.Value, i)
		}
	}
}

func TestFewShot_UnparseableRelationshipKeptWithNote(t *testing.T) {
	gen, fs := newFewShotFixture()
	fs.Record(domain.FeedbackKindRelationship,
		domain.ExtractedItem{Type: "WORKS_WITH", FromValue: "Jane", ToValue: "Acme"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "Jane actually works for Acme")

	examples := gen.Generate(FewShotOptions{})
	if len(examples) != 1 {
		t.Fatalf("expected the example to be kept, got %d", len(examples))
	}
	if examples[0].Correct != nil {
		t.Fatal("expected a should-not-extract example")
	}
	if examples[0].Note == "" {
		t.Fatal("expected the diagnostic note to be carried on the example")
	}
}
