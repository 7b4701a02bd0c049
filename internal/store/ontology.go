package store

import (
	"errors"
	"strings"
	"sync"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/google/uuid"
)

var ErrTopicNotFound = errors.New("topic not found")

// TopicStore maintains the topic ontology tree. Nodes are keyed by
// normalized name, so AddTopic is idempotent by name and the tree can
// never form a cycle: parent resolution matches existing names, it never
// re-points a node.
type TopicStore struct {
	mu     sync.RWMutex
	byName map[string]*domain.TopicNode
	byID   map[string]*domain.TopicNode
}

func NewTopicStore() *TopicStore {
	return &TopicStore{
		byName: make(map[string]*domain.TopicNode),
		byID:   make(map[string]*domain.TopicNode),
	}
}

func topicKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// AddTopic inserts a topic under the named parent, creating the parent
// chain recursively when the parent does not yet exist. Adding an existing
// name returns the existing node unchanged.
func (s *TopicStore) AddTopic(name, parentName string) (*domain.TopicNode, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("topic name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(name, strings.TrimSpace(parentName))
}

func (s *TopicStore) addLocked(name, parentName string) (*domain.TopicNode, error) {
	if existing, ok := s.byName[topicKey(name)]; ok {
		return existing, nil
	}

	node := &domain.TopicNode{
		ID:       uuid.NewString(),
		Name:     name,
		Children: []string{},
	}

	if parentName != "" {
		parent, ok := s.byName[topicKey(parentName)]
		if !ok {
			var err error
			parent, err = s.addLocked(parentName, "")
			if err != nil {
				return nil, err
			}
		}
		node.ParentID = parent.ID
		node.Depth = parent.Depth + 1
		parent.Children = append(parent.Children, node.ID)
	}

	s.byName[topicKey(name)] = node
	s.byID[node.ID] = node
	return node, nil
}

// Get returns the node with the given name, matched case-insensitively.
func (s *TopicStore) Get(name string) (*domain.TopicNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.byName[topicKey(name)]
	if !ok {
		return nil, ErrTopicNotFound
	}
	cp := *node
	return &cp, nil
}

// Names returns all topic names in the tree.
func (s *TopicStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.byName))
	for _, node := range s.byName {
		out = append(out, node.Name)
	}
	return out
}

// All returns a snapshot of every node.
func (s *TopicStore) All() []domain.TopicNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TopicNode, 0, len(s.byID))
	for _, node := range s.byID {
		out = append(out, *node)
	}
	return out
}

// Roots returns the ids of all parentless nodes.
func (s *TopicStore) Roots() []domain.TopicNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.TopicNode
	for _, node := range s.byID {
		if node.ParentID == "" {
			out = append(out, *node)
		}
	}
	return out
}

// HierarchyPath returns the root-to-node name chain for the given topic,
// e.g. ["Machine Learning", "Deep Learning"].
func (s *TopicStore) HierarchyPath(name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.byName[topicKey(name)]
	if !ok {
		return nil, ErrTopicNotFound
	}

	var path []string
	for node != nil {
		path = append([]string{node.Name}, path...)
		if node.ParentID == "" {
			break
		}
		node = s.byID[node.ParentID]
	}
	return path, nil
}

func (s *TopicStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
