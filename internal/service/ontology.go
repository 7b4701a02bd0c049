package service

import (
	"strings"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/store"
	"go.uber.org/zap"
)

// OntologyService maintains the hierarchical topic tree fed by the
// pipeline's entity stream. Parent inference is delegated to a pluggable
// strategy so the fixed heuristic table can be swapped for a learned
// classifier without touching tree maintenance.
type OntologyService struct {
	store    *store.TopicStore
	inferrer domain.ParentInferrer
	logger   *zap.Logger
}

func NewOntologyService(topics *store.TopicStore, inferrer domain.ParentInferrer, logger *zap.Logger) *OntologyService {
	if inferrer == nil {
		inferrer = NewHeuristicParentInferrer()
	}
	return &OntologyService{store: topics, inferrer: inferrer, logger: logger}
}

// AddTopic inserts a topic, creating the parent chain as needed.
// Idempotent by name.
func (s *OntologyService) AddTopic(name, parentName string) (*domain.TopicNode, error) {
	return s.store.AddTopic(name, parentName)
}

// AddTopicWithAutoParent tries to infer a plausible parent before falling
// back to inserting the topic as a root.
func (s *OntologyService) AddTopicWithAutoParent(name string) (*domain.TopicNode, error) {
	if existing, err := s.store.Get(name); err == nil {
		return existing, nil
	}

	if parent, ok := s.inferrer.InferParent(name, s.store.Names()); ok {
		s.logger.Debug("inferred topic parent", zap.String("topic", name), zap.String("parent", parent))
		return s.store.AddTopic(name, parent)
	}
	return s.store.AddTopic(name, "")
}

// HierarchyPath returns the root-to-node chain, e.g.
// "Machine Learning > Deep Learning".
func (s *OntologyService) HierarchyPath(name string) (string, error) {
	path, err := s.store.HierarchyPath(name)
	if err != nil {
		return "", err
	}
	return strings.Join(path, " > "), nil
}

func (s *OntologyService) Topics() []domain.TopicNode {
	return s.store.All()
}

func (s *OntologyService) Roots() []domain.TopicNode {
	return s.store.Roots()
}

// OntologyStats summarizes the tree shape.
type OntologyStats struct {
	TopicCount int `json:"topic_count"`
	RootCount  int `json:"root_count"`
	MaxDepth   int `json:"max_depth"`
}

func (s *OntologyService) Stats() OntologyStats {
	all := s.store.All()
	stats := OntologyStats{TopicCount: len(all)}
	for _, node := range all {
		if node.ParentID == "" {
			stats.RootCount++
		}
		if node.Depth > stats.MaxDepth {
			stats.MaxDepth = node.Depth
		}
	}
	return stats
}

// HeuristicParentInferrer guesses parents from (a) existing topic names
// that appear as whitespace-bounded prefixes/suffixes of the new name and
// (b) a small fixed table mapping broad topics to known child vocabulary.
// A placeholder for a learned strategy.
type HeuristicParentInferrer struct {
	children map[string][]string
}

func NewHeuristicParentInferrer() *HeuristicParentInferrer {
	return &HeuristicParentInferrer{children: map[string][]string{
		"ai":               {"machine learning", "computer vision", "natural language processing", "llms", "agents"},
		"machine learning": {"deep learning", "neural networks", "supervised learning", "unsupervised learning", "reinforcement learning", "transformers"},
		"databases":        {"postgres", "postgresql", "mysql", "sqlite", "mongodb", "redis", "sql"},
		"infrastructure":   {"kubernetes", "docker", "terraform", "aws", "gcp", "networking"},
		"programming":      {"go", "golang", "python", "javascript", "typescript", "rust"},
	}}
}

func (h *HeuristicParentInferrer) InferParent(name string, existing []string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return "", false
	}

	// (a) an existing topic that bounds the new name:
	// "learning" is a parent candidate for "deep learning".
	for _, candidate := range existing {
		cl := strings.ToLower(candidate)
		if cl == lowered {
			continue
		}
		if strings.HasPrefix(lowered, cl+" ") || strings.HasSuffix(lowered, " "+cl) {
			return candidate, true
		}
	}

	// (b) fixed child-vocabulary table.
	for parent, vocab := range h.children {
		for _, child := range vocab {
			if lowered == child {
				return parent, true
			}
		}
	}
	for parent, vocab := range h.children {
		for _, word := range strings.Fields(lowered) {
			for _, child := range vocab {
				if word == child {
					return parent, true
				}
			}
		}
	}

	return "", false
}
