package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/store"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrNoMessageSource = errors.New("message source not configured")
	ErrNoClassifier    = errors.New("classifier not configured")
	ErrBadDateRange    = errors.New("date range start is after end")
)

const dayFormat = "2006-01-02"

// ScanConfig controls one pipeline run. Zero values fall back to the
// documented defaults in Normalize.
type ScanConfig struct {
	BatchSize       int           `json:"batch_size"`
	InterBatchDelay time.Duration `json:"inter_batch_delay"`
	MaxEmailsPerDay int           `json:"max_emails_per_day"`
	DateRangeStart  time.Time     `json:"date_range_start"`
	DateRangeEnd    time.Time     `json:"date_range_end"`
	WindowDays      int           `json:"window_days"`
	AutoSync        bool          `json:"auto_sync"`
	TargetListName  string        `json:"target_list_name"`
}

// Normalize fills defaults: batch 50, delay 500ms, 100 emails/day, and a
// scan window reaching WindowDays (default 365) back from now.
func (c ScanConfig) Normalize() ScanConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.InterBatchDelay <= 0 {
		c.InterBatchDelay = 500 * time.Millisecond
	}
	if c.MaxEmailsPerDay <= 0 {
		c.MaxEmailsPerDay = 100
	}
	if c.WindowDays <= 0 {
		c.WindowDays = 365
	}
	if c.DateRangeEnd.IsZero() {
		c.DateRangeEnd = time.Now()
	}
	if c.DateRangeStart.IsZero() {
		c.DateRangeStart = c.DateRangeEnd.AddDate(0, 0, -c.WindowDays)
	}
	return c
}

// PipelineService orchestrates the scan: day-by-day fetch, classify,
// aggregate, event publication, and optional auto-sync side effects.
// At most one run is active at a time, enforced by the lifecycle guards.
type PipelineService struct {
	lifecycle  *LifecycleService
	ledger     *store.Ledger
	events     *Broadcaster
	source     domain.MessageSource
	classifier domain.Classifier
	ontology   *OntologyService
	contacts   *ContactSyncService
	tasks      *TaskSyncService
	logger     *zap.Logger
}

func NewPipelineService(
	lifecycle *LifecycleService,
	ledger *store.Ledger,
	events *Broadcaster,
	source domain.MessageSource,
	classifier domain.Classifier,
	ontology *OntologyService,
	contacts *ContactSyncService,
	tasks *TaskSyncService,
	logger *zap.Logger,
) *PipelineService {
	s := &PipelineService{
		lifecycle:  lifecycle,
		ledger:     ledger,
		events:     events,
		source:     source,
		classifier: classifier,
		ontology:   ontology,
		contacts:   contacts,
		tasks:      tasks,
		logger:     logger,
	}

	// Mirror lifecycle transitions into the event stream.
	lifecycle.Subscribe(func(prev, next domain.ProcessingState) {
		events.Publish(domain.Event{
			Type: domain.EventStateChange,
			Data: domain.StateChangePayload{PreviousState: prev, NewState: next},
		})
	})

	return s
}

// Start validates configuration, transitions the lifecycle to running and
// launches the scan worker. Validation failures leave the lifecycle in its
// pre-run state.
func (s *PipelineService) Start(cfg ScanConfig) error {
	if s.source == nil {
		return ErrNoMessageSource
	}
	if s.classifier == nil {
		return ErrNoClassifier
	}
	cfg = cfg.Normalize()
	if dateOf(cfg.DateRangeStart).After(dateOf(cfg.DateRangeEnd)) {
		return fmt.Errorf("%w: %s > %s", ErrBadDateRange,
			cfg.DateRangeStart.Format(dayFormat), cfg.DateRangeEnd.Format(dayFormat))
	}

	ctx, err := s.lifecycle.Start()
	if err != nil {
		return err
	}

	go s.run(ctx, cfg)
	return nil
}

func (s *PipelineService) Pause() error  { return s.lifecycle.Pause() }
func (s *PipelineService) Resume() error { return s.lifecycle.Resume() }
func (s *PipelineService) Stop() error   { return s.lifecycle.Stop() }

// Flush hard-resets the lifecycle and clears the ledger.
func (s *PipelineService) Flush() {
	s.lifecycle.Flush()
	s.ledger.Reset()
}

func (s *PipelineService) State() domain.ProcessingState {
	return s.lifecycle.State()
}

// Status reports the liveness signal plus current aggregate counts.
func (s *PipelineService) Status() (domain.ProcessingState, int, int) {
	entities, relationships, _ := s.ledger.Counts()
	return s.lifecycle.State(), entities, relationships
}

// Entities returns discovered entities sorted by occurrence descending.
func (s *PipelineService) Entities() []domain.DiscoveredEntity {
	out := s.ledger.Entities()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].NormalizedKey < out[j].NormalizedKey
	})
	return out
}

// Relationships returns discovered relationships sorted by occurrence
// descending.
func (s *PipelineService) Relationships() []domain.DiscoveredRelationship {
	out := s.ledger.Relationships()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].FromValue < out[j].FromValue
	})
	return out
}

func (s *PipelineService) run(ctx context.Context, cfg ScanConfig) {
	days := enumerateDays(cfg.DateRangeStart, cfg.DateRangeEnd)
	pacer := rate.NewLimiter(rate.Every(cfg.InterBatchDelay), 1)
	totalFetched := 0

	s.logger.Info("scan started",
		zap.Int("days", len(days)),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Bool("auto_sync", cfg.AutoSync))

	for _, day := range days {
		if ctx.Err() != nil {
			s.logger.Info("scan cancelled", zap.String("day", day.Format(dayFormat)))
			return
		}
		if err := s.awaitResume(ctx); err != nil {
			s.logger.Info("scan cancelled while paused")
			return
		}
		if err := pacer.Wait(ctx); err != nil {
			return
		}

		msgs, err := s.source.FetchDay(ctx, day, cfg.MaxEmailsPerDay)
		if err != nil {
			// One day's failure never aborts the run.
			s.logger.Warn("day fetch failed", zap.String("day", day.Format(dayFormat)), zap.Error(err))
			s.events.Publish(domain.Event{Type: domain.EventError, Data: domain.ErrorPayload{
				Message: fmt.Sprintf("failed to fetch %s", day.Format(dayFormat)),
				Details: err.Error(),
			}})
			continue
		}
		totalFetched += len(msgs)

		totalBatches := (len(msgs) + cfg.BatchSize - 1) / cfg.BatchSize
		for b := 0; b < totalBatches; b++ {
			if ctx.Err() != nil {
				return
			}
			if err := s.awaitResume(ctx); err != nil {
				return
			}
			if b > 0 {
				if err := pacer.Wait(ctx); err != nil {
					return
				}
			}

			lo := b * cfg.BatchSize
			hi := min(lo+cfg.BatchSize, len(msgs))
			for _, msg := range msgs[lo:hi] {
				s.processMessage(ctx, msg, cfg)
			}

			s.events.Publish(domain.Event{
				Type: domain.EventProgress,
				Data: progressPayload(s.ledger.ProgressSnapshot(
					s.lifecycle.State(), day.Format(dayFormat), totalFetched, b+1, totalBatches)),
			})
		}
	}

	summary := s.ledger.RunSummary()
	if err := s.lifecycle.Complete(); err != nil {
		// Flushed out from under us; nothing left to report.
		return
	}
	s.events.Publish(domain.Event{Type: domain.EventComplete, Data: domain.CompletePayload{Summary: summary}})
	s.logger.Info("scan complete",
		zap.Int("emails", summary.EmailsProcessed),
		zap.Int("entities", summary.EntityCount),
		zap.Int("relationships", summary.RelationshipCount))
}

func (s *PipelineService) processMessage(ctx context.Context, msg domain.EmailMessage, cfg ScanConfig) {
	cls, err := s.classifier.Classify(ctx, msg)
	if err != nil {
		s.events.Publish(domain.Event{Type: domain.EventError, Data: domain.ErrorPayload{
			Message: fmt.Sprintf("classification failed for %s", msg.ID),
			Details: err.Error(),
		}})
		return
	}

	entities := cls.Entities
	relationships := cls.Relationships
	if cls.IsSpam {
		// Spam still counts as processed but contributes no discoveries.
		entities, relationships = nil, nil
	}

	s.ledger.RecordMessage(msg, entities, relationships)

	for _, e := range entities {
		if e.Type == domain.EntityTypeTopic && s.ontology != nil {
			if _, err := s.ontology.AddTopicWithAutoParent(e.Value); err != nil {
				s.logger.Debug("topic insert failed", zap.String("topic", e.Value), zap.Error(err))
			}
		}
	}

	s.events.Publish(domain.Event{Type: domain.EventEmail, Data: domain.EmailPayload{
		Email:         msg,
		Entities:      entities,
		Relationships: relationships,
		IsSpam:        cls.IsSpam,
		SpamScore:     cls.SpamScore,
	}})
	for _, r := range relationships {
		s.events.Publish(domain.Event{Type: domain.EventRelationship, Data: domain.RelationshipPayload{
			Relationship: r,
			SourceEmail:  msg.ID,
		}})
	}

	if cfg.AutoSync {
		s.autoSync(ctx, msg, entities, cfg.TargetListName)
	}
}

// autoSync forwards qualifying entities to the external stores. Failures
// surface as sync events with an error field; they never abort the loop.
func (s *PipelineService) autoSync(ctx context.Context, msg domain.EmailMessage, entities []domain.Entity, listName string) {
	var people, actions []domain.Entity
	for _, e := range entities {
		switch e.Type {
		case domain.EntityTypePerson:
			people = append(people, e)
		case domain.EntityTypeActionItem:
			actions = append(actions, e)
		}
	}

	if len(people) > 0 && s.contacts != nil {
		if _, err := s.contacts.SyncEntities(ctx, people, emailHints(msg)); err != nil {
			s.logger.Warn("contact auto-sync failed", zap.Error(err))
		}
	}
	if len(actions) > 0 && s.tasks != nil {
		if _, err := s.tasks.SyncEntities(ctx, actions, listName); err != nil {
			s.logger.Warn("task auto-sync failed", zap.Error(err))
		}
	}
}

// awaitResume blocks while the lifecycle is paused, waking on resume or
// cancellation.
func (s *PipelineService) awaitResume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.lifecycle.ResumeGate():
		}
		if s.lifecycle.State() != domain.StatePaused {
			return nil
		}
	}
}

// enumerateDays lists whole calendar days from end back to start
// inclusive, newest first: recent activity is higher signal and gives the
// user useful output fastest.
func enumerateDays(start, end time.Time) []time.Time {
	startDay := dateOf(start)
	var days []time.Time
	for d := dateOf(end); !d.Before(startDay); d = d.AddDate(0, 0, -1) {
		days = append(days, d)
	}
	return days
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// emailHints maps sender/recipient display names to addresses so the
// contacts adapter can associate an email with a person entity.
func emailHints(msg domain.EmailMessage) map[string]string {
	hints := make(map[string]string)
	for _, raw := range append([]string{msg.From}, msg.To...) {
		addr, err := mail.ParseAddress(raw)
		if err != nil || addr.Name == "" {
			continue
		}
		hints[domain.NormalizeValue(addr.Name)] = addr.Address
	}
	return hints
}

func progressPayload(p domain.ProgressSnapshot) domain.ProgressPayload {
	return domain.ProgressPayload{
		State:              p.State,
		CurrentDay:         p.CurrentDay,
		EmailsProcessed:    p.EmailsProcessed,
		TotalEmails:        p.TotalEmails,
		EntitiesFound:      p.EntitiesFound,
		RelationshipsFound: p.RelationshipsFound,
		CurrentBatch:       p.CurrentBatch,
		TotalBatches:       p.TotalBatches,
	}
}
