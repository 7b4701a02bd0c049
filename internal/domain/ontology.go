package domain

// TopicNode is one node in the topic ontology tree. Every node except
// roots has exactly one parent; Depth = parent.Depth + 1.
type TopicNode struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	ParentID string            `json:"parent_id,omitempty"`
	Children []string          `json:"children"`
	Depth    int               `json:"depth"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ParentInferrer guesses a plausible parent topic for a new topic name.
// Returns ("", false) when no candidate can be inferred. Implementations
// range from fixed heuristic tables to learned classifiers.
type ParentInferrer interface {
	InferParent(name string, existing []string) (string, bool)
}
