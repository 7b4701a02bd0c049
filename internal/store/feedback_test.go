package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Harshitk-cp/mailmap/internal/domain"
)

func TestFeedbackStore_RecordAndGet(t *testing.T) {
	s := NewFeedbackStore()

	rec := s.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Acme", Type: "organization"},
		domain.JudgmentPositive,
		domain.FeedbackContext{Subject: "renewal"}, "")

	if rec.ID == "" {
		t.Fatal("expected a generated id")
	}
	if rec.Timestamp.IsZero() {
		t.Fatal("expected a timestamp")
	}

	got, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Extracted.Value != "Acme" {
		t.Fatalf("expected stored record, got %+v", got)
	}
}

func TestFeedbackStore_GetMissing(t *testing.T) {
	s := NewFeedbackStore()

	if _, err := s.Get("nope"); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound, got %v", err)
	}
}

func TestFeedbackStore_Delete(t *testing.T) {
	s := NewFeedbackStore()
	rec := s.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "x", Type: "tool"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "DELETE")

	if err := s.Delete(rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(rec.ID); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound on second delete, got %v", err)
	}
}

func TestFeedbackStore_Stats(t *testing.T) {
	s := NewFeedbackStore()
	s.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Jane", Type: "person"},
		domain.JudgmentPositive, domain.FeedbackContext{}, "")
	s.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Acme", Type: "organization"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "DELETE")
	s.Record(domain.FeedbackKindRelationship,
		domain.ExtractedItem{Type: "WORKS_FOR", FromValue: "Jane", ToValue: "Acme"},
		domain.JudgmentPositive, domain.FeedbackContext{}, "")

	stats := s.Stats()
	if stats.Total != 3 || stats.Positive != 2 || stats.Negative != 1 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.ByKind["entity"] != 2 || stats.ByKind["relationship"] != 1 {
		t.Fatalf("unexpected kind counts: %v", stats.ByKind)
	}
	if stats.ByType["person"] != 1 || stats.ByType["WORKS_FOR"] != 1 {
		t.Fatalf("unexpected type counts: %v", stats.ByType)
	}
}

func TestFeedbackStore_ExportImportRoundTrip(t *testing.T) {
	src := NewFeedbackStore()
	src.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Jane", Type: "person"},
		domain.JudgmentPositive, domain.FeedbackContext{Subject: "intro"}, "")
	src.Record(domain.FeedbackKindRelationship,
		domain.ExtractedItem{Type: "USES", FromValue: "team", ToValue: "grafana"},
		domain.JudgmentNegative, domain.FeedbackContext{}, "DISCUSSED team -> grafana")

	data, err := src.ExportLines()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := NewFeedbackStore()
	n, err := dst.LoadLines(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 2 || dst.Count() != 2 {
		t.Fatalf("expected 2 records loaded, got n=%d count=%d", n, dst.Count())
	}

	// Reloading the same lines merges by id and changes nothing.
	if _, err := dst.LoadLines(data); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if dst.Count() != 2 {
		t.Fatalf("expected reload to be idempotent, got %d records", dst.Count())
	}

	want := src.List()
	got := dst.List()
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Correction != want[i].Correction {
			t.Fatalf("record %d did not round-trip: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestFeedbackStore_LoadLinesRejectsMalformed(t *testing.T) {
	s := NewFeedbackStore()

	if _, err := s.LoadLines([]byte("{not json\n")); err == nil {
		t.Fatal("expected error for malformed line")
	}
	if _, err := s.LoadLines([]byte("{\"kind\":\"entity\"}\n")); err == nil {
		t.Fatal("expected error for record without id")
	}
}

func TestFeedbackStore_SaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.jsonl")

	src := NewFeedbackStore()
	src.Record(domain.FeedbackKindEntity,
		domain.ExtractedItem{Value: "Acme", Type: "organization"},
		domain.JudgmentPositive, domain.FeedbackContext{}, "")

	if err := src.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	dst := NewFeedbackStore()
	n, err := dst.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
}

func TestFeedbackStore_LoadMissingFile(t *testing.T) {
	s := NewFeedbackStore()

	n, err := s.Load(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 records, got %d", n)
	}
}
