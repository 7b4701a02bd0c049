package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/service"
)

type PipelineHandler struct {
	svc      *service.PipelineService
	defaults service.ScanConfig
}

// NewPipelineHandler builds the pipeline control surface. defaults fills
// any scan parameter the start request leaves unset.
func NewPipelineHandler(svc *service.PipelineService, defaults service.ScanConfig) *PipelineHandler {
	return &PipelineHandler{svc: svc, defaults: defaults}
}

type startRequest struct {
	BatchSize         int    `json:"batch_size,omitempty"`
	InterBatchDelayMS int    `json:"inter_batch_delay_ms,omitempty"`
	MaxEmailsPerDay   int    `json:"max_emails_per_day,omitempty"`
	DateRangeStart    string `json:"date_range_start,omitempty"`
	DateRangeEnd      string `json:"date_range_end,omitempty"`
	AutoSync          bool   `json:"auto_sync,omitempty"`
	TargetListName    string `json:"target_list_name,omitempty"`
}

type stateResponse struct {
	State domain.ProcessingState `json:"state"`
}

func (h *PipelineHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	cfg := h.defaults
	if req.BatchSize > 0 {
		cfg.BatchSize = req.BatchSize
	}
	if req.InterBatchDelayMS > 0 {
		cfg.InterBatchDelay = time.Duration(req.InterBatchDelayMS) * time.Millisecond
	}
	if req.MaxEmailsPerDay > 0 {
		cfg.MaxEmailsPerDay = req.MaxEmailsPerDay
	}
	if req.AutoSync {
		cfg.AutoSync = true
	}
	if req.TargetListName != "" {
		cfg.TargetListName = req.TargetListName
	}

	var err error
	if req.DateRangeStart != "" {
		if cfg.DateRangeStart, err = time.Parse("2006-01-02", req.DateRangeStart); err != nil {
			writeError(w, http.StatusBadRequest, "invalid date_range_start")
			return
		}
	}
	if req.DateRangeEnd != "" {
		if cfg.DateRangeEnd, err = time.Parse("2006-01-02", req.DateRangeEnd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid date_range_end")
			return
		}
	}

	if err := h.svc.Start(cfg); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrBadDateRange),
			errors.Is(err, service.ErrNoMessageSource),
			errors.Is(err, service.ErrNoClassifier):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to start scan")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, stateResponse{State: h.svc.State()})
}

func (h *PipelineHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, h.svc.Pause)
}

func (h *PipelineHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, h.svc.Resume)
}

func (h *PipelineHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.transition(w, h.svc.Stop)
}

func (h *PipelineHandler) Flush(w http.ResponseWriter, r *http.Request) {
	h.svc.Flush()
	writeJSON(w, http.StatusOK, stateResponse{State: h.svc.State()})
}

func (h *PipelineHandler) transition(w http.ResponseWriter, fn func() error) {
	if err := fn(); err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: h.svc.State()})
}

func (h *PipelineHandler) Status(w http.ResponseWriter, r *http.Request) {
	state, entities, relationships := h.svc.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":              state,
		"entity_count":       entities,
		"relationship_count": relationships,
	})
}

func (h *PipelineHandler) Entities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entities": h.svc.Entities()})
}

func (h *PipelineHandler) Relationships(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"relationships": h.svc.Relationships()})
}
