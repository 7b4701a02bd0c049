package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/service"
)

type OntologyHandler struct {
	svc *service.OntologyService
}

func NewOntologyHandler(svc *service.OntologyService) *OntologyHandler {
	return &OntologyHandler{svc: svc}
}

type topicTreeNode struct {
	Name     string          `json:"name"`
	Depth    int             `json:"depth"`
	Children []topicTreeNode `json:"children,omitempty"`
}

// Get returns the topic tree, the flat node list, and shape stats.
func (h *OntologyHandler) Get(w http.ResponseWriter, r *http.Request) {
	topics := h.svc.Topics()
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })

	writeJSON(w, http.StatusOK, map[string]any{
		"tree":   buildTree(topics),
		"topics": topics,
		"stats":  h.svc.Stats(),
	})
}

type addTopicRequest struct {
	Name             string `json:"name"`
	ParentName       string `json:"parent_name,omitempty"`
	AutoDetectParent bool   `json:"auto_detect_parent,omitempty"`
}

func (h *OntologyHandler) AddTopic(w http.ResponseWriter, r *http.Request) {
	var req addTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var (
		node *domain.TopicNode
		err  error
	)
	if req.AutoDetectParent && req.ParentName == "" {
		node, err = h.svc.AddTopicWithAutoParent(req.Name)
	} else {
		node, err = h.svc.AddTopic(req.Name, req.ParentName)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, _ := h.svc.HierarchyPath(node.Name)
	writeJSON(w, http.StatusCreated, map[string]any{
		"topic": node,
		"path":  path,
	})
}

func buildTree(topics []domain.TopicNode) []topicTreeNode {
	byID := make(map[string]domain.TopicNode, len(topics))
	childIDs := make(map[string][]string)
	for _, t := range topics {
		byID[t.ID] = t
		if t.ParentID != "" {
			childIDs[t.ParentID] = append(childIDs[t.ParentID], t.ID)
		}
	}

	var build func(id string) topicTreeNode
	build = func(id string) topicTreeNode {
		t := byID[id]
		node := topicTreeNode{Name: t.Name, Depth: t.Depth}
		ids := childIDs[id]
		sort.Slice(ids, func(i, j int) bool { return byID[ids[i]].Name < byID[ids[j]].Name })
		for _, cid := range ids {
			node.Children = append(node.Children, build(cid))
		}
		return node
	}

	var roots []topicTreeNode
	for _, t := range topics {
		if t.ParentID == "" {
			roots = append(roots, build(t.ID))
		}
	}
	return roots
}
