package service

import (
	"context"
	"strings"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	SyncActionCreated = "created"
	SyncActionUpdated = "updated"
	SyncActionSkipped = "skipped"
)

// SyncResult is the outcome of syncing one entity.
type SyncResult struct {
	EntityValue string `json:"entity_value"`
	Action      string `json:"action"`
	ExternalID  string `json:"external_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// SyncSummary aggregates per-item results for one sync batch.
type SyncSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"error_count"`
}

func (s *SyncSummary) add(r SyncResult) {
	s.Total++
	switch r.Action {
	case SyncActionCreated:
		s.Created++
	case SyncActionUpdated:
		s.Updated++
	default:
		s.Skipped++
	}
	if r.Error != "" {
		s.Errors++
	}
}

// ContactSyncService pushes discovered person entities into the external
// contact store. Sync is best-effort and idempotent by email lookup: a
// person whose email already exists is updated, never duplicated. A
// single item's failure becomes a skipped result, not an error.
type ContactSyncService struct {
	store  domain.ContactStore
	events *Broadcaster
	pacer  *rate.Limiter
	logger *zap.Logger
}

func NewContactSyncService(store domain.ContactStore, events *Broadcaster, callDelay time.Duration, logger *zap.Logger) *ContactSyncService {
	return &ContactSyncService{
		store:  store,
		events: events,
		pacer:  rate.NewLimiter(rate.Every(callDelay), 1),
		logger: logger,
	}
}

// SyncEntities syncs each person entity, pacing calls to respect external
// rate limits. emails maps normalized display names to known addresses.
// Returns early only on context cancellation.
func (s *ContactSyncService) SyncEntities(ctx context.Context, entities []domain.Entity, emails map[string]string) (SyncSummary, error) {
	var summary SyncSummary
	for i, e := range entities {
		if err := s.pacer.Wait(ctx); err != nil {
			return summary, err
		}

		res := s.syncOne(ctx, e, emails[domain.NormalizeValue(e.Value)])
		summary.add(res)

		s.events.Publish(domain.Event{Type: domain.EventContactSync, Data: domain.ContactSyncPayload{
			EntityValue:  res.EntityValue,
			Action:       res.Action,
			ResourceName: res.ExternalID,
			Error:        res.Error,
			Current:      i + 1,
			Total:        len(entities),
		}})
	}

	s.logger.Info("contact sync finished",
		zap.Int("total", summary.Total),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors))
	return summary, nil
}

func (s *ContactSyncService) syncOne(ctx context.Context, e domain.Entity, email string) SyncResult {
	given, family := SplitPersonName(e.Value)
	contact := domain.ExternalContact{GivenName: given, FamilyName: family, Email: email}

	if email != "" {
		existing, err := s.store.FindByEmail(ctx, email)
		if err != nil {
			return SyncResult{EntityValue: e.Value, Action: SyncActionSkipped, Error: err.Error()}
		}
		if existing != nil {
			contact.ResourceName = existing.ResourceName
			updated, err := s.store.Update(ctx, contact)
			if err != nil {
				return SyncResult{EntityValue: e.Value, Action: SyncActionSkipped, Error: err.Error()}
			}
			return SyncResult{EntityValue: e.Value, Action: SyncActionUpdated, ExternalID: updated.ResourceName}
		}
	}

	created, err := s.store.Create(ctx, contact)
	if err != nil {
		return SyncResult{EntityValue: e.Value, Action: SyncActionSkipped, Error: err.Error()}
	}
	return SyncResult{EntityValue: e.Value, Action: SyncActionCreated, ExternalID: created.ResourceName}
}

// SplitPersonName parses a display name into given and family parts.
// "Last, First" comma form and "First Last ..." space form are both
// supported; with no comma the first token is the given name.
func SplitPersonName(display string) (given, family string) {
	display = strings.TrimSpace(display)
	if display == "" {
		return "", ""
	}

	if i := strings.Index(display, ","); i >= 0 {
		family = strings.TrimSpace(display[:i])
		given = strings.TrimSpace(display[i+1:])
		return given, family
	}

	parts := strings.Fields(display)
	given = parts[0]
	if len(parts) > 1 {
		family = strings.Join(parts[1:], " ")
	}
	return given, family
}
