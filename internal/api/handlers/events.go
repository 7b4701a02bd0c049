package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/service"
)

const pingInterval = 25 * time.Second

// EventsHandler streams pipeline events to the client as server-sent
// events. Each connection is one sink on the broadcaster; a client that
// disconnects fails its next write and is evicted by the broadcaster.
type EventsHandler struct {
	events *service.Broadcaster
}

func NewEventsHandler(events *service.Broadcaster) *EventsHandler {
	return &EventsHandler{events: events}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sink := &sseSink{w: w, flusher: flusher}
	if err := sink.Send(domain.Event{Type: domain.EventConnected}); err != nil {
		return
	}

	h.events.Subscribe(sink)
	defer h.events.Unsubscribe(sink)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := sink.Send(domain.Event{Type: domain.EventPing}); err != nil {
				return
			}
		}
	}
}

// sseSink writes events to one client connection. The pipeline worker
// and the per-connection ping loop both write, hence the lock.
type sseSink struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) Send(ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
