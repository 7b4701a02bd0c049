package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/service"
)

// SyncHandler exposes on-demand contact/task synchronization for
// entities already discovered by the pipeline.
type SyncHandler struct {
	pipeline        *service.PipelineService
	contacts        *service.ContactSyncService
	tasks           *service.TaskSyncService
	defaultListName string
}

func NewSyncHandler(pipeline *service.PipelineService, contacts *service.ContactSyncService, tasks *service.TaskSyncService, defaultListName string) *SyncHandler {
	return &SyncHandler{
		pipeline:        pipeline,
		contacts:        contacts,
		tasks:           tasks,
		defaultListName: defaultListName,
	}
}

type syncRequest struct {
	EntityValues []string `json:"entity_values,omitempty"`
	ListName     string   `json:"list_name,omitempty"`
}

func (h *SyncHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	if h.contacts == nil {
		writeError(w, http.StatusServiceUnavailable, "contact store not configured")
		return
	}

	req, ok := decodeSyncRequest(w, r)
	if !ok {
		return
	}

	entities := h.selectEntities(domain.EntityTypePerson, req.EntityValues)
	summary, err := h.contacts.SyncEntities(r.Context(), entities, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SyncHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	if h.tasks == nil {
		writeError(w, http.StatusServiceUnavailable, "task store not configured")
		return
	}

	req, ok := decodeSyncRequest(w, r)
	if !ok {
		return
	}

	listName := req.ListName
	if listName == "" {
		listName = h.defaultListName
	}

	entities := h.selectEntities(domain.EntityTypeActionItem, req.EntityValues)
	summary, err := h.tasks.SyncEntities(r.Context(), entities, listName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func decodeSyncRequest(w http.ResponseWriter, r *http.Request) (syncRequest, bool) {
	var req syncRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return req, false
		}
	}
	return req, true
}

// selectEntities picks discovered entities of one type, optionally
// narrowed to specific values (matched by normalized key).
func (h *SyncHandler) selectEntities(typ domain.EntityType, values []string) []domain.Entity {
	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[domain.NormalizeValue(v)] = true
	}

	var out []domain.Entity
	for _, e := range h.pipeline.Entities() {
		if e.Type != typ {
			continue
		}
		if len(wanted) > 0 && !wanted[e.NormalizedKey] {
			continue
		}
		out = append(out, domain.Entity{Type: e.Type, Value: e.Value})
	}
	return out
}
