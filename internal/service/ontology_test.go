package service

import (
	"testing"

	"github.com/Harshitk-cp/mailmap/internal/store"
	"go.uber.org/zap"
)

func newOntologyFixture() *OntologyService {
	return NewOntologyService(store.NewTopicStore(), nil, zap.NewNop())
}

func TestOntology_AutoParentFromVocabulary(t *testing.T) {
	svc := newOntologyFixture()

	if _, err := svc.AddTopicWithAutoParent("Machine Learning"); err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := svc.AddTopicWithAutoParent("Deep Learning"); err != nil {
		t.Fatalf("add child: %v", err)
	}

	path, err := svc.HierarchyPath("Deep Learning")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "Machine Learning > Deep Learning" {
		t.Fatalf("expected vocabulary inference to nest, got %q", path)
	}
}

func TestOntology_AutoParentFromExistingPrefix(t *testing.T) {
	svc := newOntologyFixture()

	_, _ = svc.AddTopic("Budget", "")
	if _, err := svc.AddTopicWithAutoParent("Budget Planning"); err != nil {
		t.Fatalf("add: %v", err)
	}

	path, err := svc.HierarchyPath("Budget Planning")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "Budget > Budget Planning" {
		t.Fatalf("expected prefix match to nest, got %q", path)
	}
}

func TestOntology_NoInferenceBecomesRoot(t *testing.T) {
	svc := newOntologyFixture()

	node, err := svc.AddTopicWithAutoParent("Quarterly Offsite")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if node.ParentID != "" {
		t.Fatal("expected uninferrable topic to be a root")
	}
}

func TestOntology_AutoParentIdempotent(t *testing.T) {
	svc := newOntologyFixture()

	first, _ := svc.AddTopicWithAutoParent("Kubernetes")
	second, _ := svc.AddTopicWithAutoParent("kubernetes")

	if first.ID != second.ID {
		t.Fatal("expected repeated adds to resolve to the same node")
	}
}

func TestOntology_Stats(t *testing.T) {
	svc := newOntologyFixture()
	_, _ = svc.AddTopic("Machine Learning", "")
	_, _ = svc.AddTopic("Deep Learning", "Machine Learning")
	_, _ = svc.AddTopic("Transformers", "Deep Learning")
	_, _ = svc.AddTopic("Databases", "")

	stats := svc.Stats()
	if stats.TopicCount != 4 {
		t.Fatalf("expected 4 topics, got %d", stats.TopicCount)
	}
	if stats.RootCount != 2 {
		t.Fatalf("expected 2 roots, got %d", stats.RootCount)
	}
	if stats.MaxDepth != 2 {
		t.Fatalf("expected max depth 2, got %d", stats.MaxDepth)
	}
}

func TestHeuristicParentInferrer_NoMatch(t *testing.T) {
	inf := NewHeuristicParentInferrer()

	if parent, ok := inf.InferParent("Quarterly Offsite", nil); ok {
		t.Fatalf("expected no inference, got %q", parent)
	}
	if _, ok := inf.InferParent("", nil); ok {
		t.Fatal("expected no inference for empty name")
	}
}

func TestHeuristicParentInferrer_ExistingSuffix(t *testing.T) {
	inf := NewHeuristicParentInferrer()

	parent, ok := inf.InferParent("Team Planning", []string{"Planning"})
	if !ok || parent != "Planning" {
		t.Fatalf("expected suffix match on existing topic, got %q ok=%v", parent, ok)
	}
}
