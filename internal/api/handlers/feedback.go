package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/service"
)

type FeedbackHandler struct {
	svc *service.FeedbackService
}

func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

type createFeedbackRequest struct {
	Kind       string                 `json:"kind"`
	Judgment   string                 `json:"judgment"`
	Extracted  domain.ExtractedItem   `json:"extracted"`
	Context    domain.FeedbackContext `json:"context,omitempty"`
	Correction string                 `json:"correction,omitempty"`
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Record(req.Kind, req.Judgment, req.Extracted, req.Context, req.Correction)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackInvalidKind),
			errors.Is(err, service.ErrFeedbackInvalidJudgment),
			errors.Is(err, service.ErrFeedbackEmptyItem):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record feedback")
		}
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

// Export streams the full record set as a downloadable JSONL file.
func (h *FeedbackHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportLines()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export feedback")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename="feedback.jsonl"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import merges an exported JSONL file back into the store, keyed by
// record id.
func (h *FeedbackHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 32<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	loaded, err := h.svc.Import(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"loaded": loaded})
}
