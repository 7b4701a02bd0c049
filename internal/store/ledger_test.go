package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
)

func msgOn(id, day string) domain.EmailMessage {
	d, _ := time.Parse("2006-01-02", day)
	return domain.EmailMessage{ID: id, Date: d}
}

func TestLedger_DeduplicatesEntities(t *testing.T) {
	l := NewLedger()
	entity := []domain.Entity{{Type: domain.EntityTypePerson, Value: "Jane Doe"}}

	l.RecordMessage(msgOn("m1", "2024-01-01"), entity, nil)
	l.RecordMessage(msgOn("m2", "2024-01-02"), entity, nil)
	l.RecordMessage(msgOn("m3", "2024-01-03"), entity, nil)

	entities := l.Entities()
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	e := entities[0]
	if e.Occurrences != 3 {
		t.Fatalf("expected 3 occurrences, got %d", e.Occurrences)
	}
	if len(e.SourceEmailIDs) != 3 {
		t.Fatalf("expected 3 source emails, got %d", len(e.SourceEmailIDs))
	}
	if got := e.FirstSeen.Format("2006-01-02"); got != "2024-01-01" {
		t.Fatalf("expected first seen 2024-01-01, got %s", got)
	}
	if got := e.LastSeen.Format("2006-01-02"); got != "2024-01-03" {
		t.Fatalf("expected last seen 2024-01-03, got %s", got)
	}
}

func TestLedger_IdentityIsCaseAndWhitespaceInsensitive(t *testing.T) {
	l := NewLedger()

	l.RecordMessage(msgOn("m1", "2024-01-01"),
		[]domain.Entity{{Type: domain.EntityTypePerson, Value: "Jane  Doe"}}, nil)
	l.RecordMessage(msgOn("m2", "2024-01-02"),
		[]domain.Entity{{Type: domain.EntityTypePerson, Value: "jane doe"}}, nil)

	if got := l.Entities(); len(got) != 1 {
		t.Fatalf("expected casing and whitespace variants to collapse, got %d entities", len(got))
	}
}

func TestLedger_SameValueDifferentTypeIsDistinct(t *testing.T) {
	l := NewLedger()

	l.RecordMessage(msgOn("m1", "2024-01-01"), []domain.Entity{
		{Type: domain.EntityTypeProject, Value: "Mercury"},
		{Type: domain.EntityTypeTopic, Value: "Mercury"},
	}, nil)

	if got := l.Entities(); len(got) != 2 {
		t.Fatalf("expected type to be part of identity, got %d entities", len(got))
	}
}

func TestLedger_RelationshipDirectionMatters(t *testing.T) {
	l := NewLedger()
	forward := domain.Relationship{
		FromType: domain.EntityTypePerson, FromValue: "Jane",
		Type:   domain.RelWorksFor,
		ToType: domain.EntityTypeOrganization, ToValue: "Acme",
	}
	reverse := domain.Relationship{
		FromType: domain.EntityTypeOrganization, FromValue: "Acme",
		Type:   domain.RelWorksFor,
		ToType: domain.EntityTypePerson, ToValue: "Jane",
	}

	l.RecordMessage(msgOn("m1", "2024-01-01"), nil, []domain.Relationship{forward, reverse})
	l.RecordMessage(msgOn("m2", "2024-01-02"), nil, []domain.Relationship{forward})

	rels := l.Relationships()
	if len(rels) != 2 {
		t.Fatalf("expected direction to distinguish edges, got %d", len(rels))
	}
	for _, r := range rels {
		if r.FromValue == "Jane" && r.Occurrences != 2 {
			t.Fatalf("expected forward edge seen twice, got %d", r.Occurrences)
		}
	}
}

func TestLedger_RunSummary(t *testing.T) {
	l := NewLedger()

	for i := 0; i < 5; i++ {
		l.RecordMessage(msgOn(fmt.Sprintf("m%d", i), "2024-01-02"),
			[]domain.Entity{{Type: domain.EntityTypePerson, Value: "Jane Doe"}}, nil)
	}
	l.RecordMessage(msgOn("m9", "2024-01-05"), []domain.Entity{
		{Type: domain.EntityTypeOrganization, Value: "Acme"},
		{Type: domain.EntityTypeTopic, Value: "budget"},
	}, nil)

	summary := l.RunSummary()
	if summary.EmailsProcessed != 6 {
		t.Fatalf("expected 6 emails, got %d", summary.EmailsProcessed)
	}
	if summary.EntityCount != 3 {
		t.Fatalf("expected 3 unique entities, got %d", summary.EntityCount)
	}
	if summary.EntitiesByType["person"] != 1 || summary.EntitiesByType["organization"] != 1 {
		t.Fatalf("unexpected per-type counts: %v", summary.EntitiesByType)
	}
	if summary.TopEntities[0].Value != "Jane Doe" {
		t.Fatalf("expected most frequent entity first, got %s", summary.TopEntities[0].Value)
	}
	if got := summary.CoverageStart.Format("2006-01-02"); got != "2024-01-02" {
		t.Fatalf("expected coverage start 2024-01-02, got %s", got)
	}
	if got := summary.CoverageEnd.Format("2006-01-02"); got != "2024-01-05" {
		t.Fatalf("expected coverage end 2024-01-05, got %s", got)
	}
}

func TestLedger_TopEntitiesCapped(t *testing.T) {
	l := NewLedger()

	for i := 0; i < 15; i++ {
		l.RecordMessage(msgOn(fmt.Sprintf("m%d", i), "2024-01-01"),
			[]domain.Entity{{Type: domain.EntityTypeTool, Value: fmt.Sprintf("tool-%d", i)}}, nil)
	}

	summary := l.RunSummary()
	if summary.EntityCount != 15 {
		t.Fatalf("expected 15 unique entities, got %d", summary.EntityCount)
	}
	if len(summary.TopEntities) != 10 {
		t.Fatalf("expected top list capped at 10, got %d", len(summary.TopEntities))
	}
}

func TestLedger_Reset(t *testing.T) {
	l := NewLedger()
	l.RecordMessage(msgOn("m1", "2024-01-01"),
		[]domain.Entity{{Type: domain.EntityTypePerson, Value: "Jane"}}, nil)

	l.Reset()

	entities, relationships, emails := l.Counts()
	if entities != 0 || relationships != 0 || emails != 0 {
		t.Fatalf("expected empty ledger after reset, got %d/%d/%d", entities, relationships, emails)
	}
}

func TestLedger_ProgressSnapshot(t *testing.T) {
	l := NewLedger()
	l.RecordMessage(msgOn("m1", "2024-01-01"),
		[]domain.Entity{{Type: domain.EntityTypePerson, Value: "Jane"}}, nil)

	p := l.ProgressSnapshot(domain.StateRunning, "2024-01-01", 20, 2, 4)
	if p.EmailsProcessed != 1 || p.EntitiesFound != 1 {
		t.Fatalf("unexpected snapshot: %+v", p)
	}
	if p.CurrentBatch != 2 || p.TotalBatches != 4 || p.TotalEmails != 20 {
		t.Fatalf("unexpected loop position: %+v", p)
	}
	if p.State != domain.StateRunning || p.CurrentDay != "2024-01-01" {
		t.Fatalf("unexpected state fields: %+v", p)
	}
}
