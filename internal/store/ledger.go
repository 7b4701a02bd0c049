package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
)

const topItemLimit = 10

// Ledger is the incremental, deduplicating accumulator for one run.
// A single pipeline worker writes; the control surface reads concurrently,
// so all access goes through the lock. One RecordMessage call is visible
// atomically to readers.
type Ledger struct {
	mu              sync.RWMutex
	entities        map[string]*domain.DiscoveredEntity
	relationships   map[string]*domain.DiscoveredRelationship
	emailsProcessed int
	startedAt       time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		entities:      make(map[string]*domain.DiscoveredEntity),
		relationships: make(map[string]*domain.DiscoveredRelationship),
		startedAt:     time.Now(),
	}
}

// RecordMessage folds one classified email into the ledger. Entities and
// relationships seen for the first time are inserted with occurrence 1;
// repeat sightings increment counters and extend the source list.
func (l *Ledger) RecordMessage(msg domain.EmailMessage, entities []domain.Entity, relationships []domain.Relationship) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := msg.Date
	if seen.IsZero() {
		seen = time.Now()
	}

	for _, e := range entities {
		key := domain.EntityKey(e.Type, e.Value)
		if existing, ok := l.entities[key]; ok {
			existing.Occurrences++
			existing.LastSeen = seen
			existing.SourceEmailIDs = append(existing.SourceEmailIDs, msg.ID)
			continue
		}
		l.entities[key] = &domain.DiscoveredEntity{
			Type:           e.Type,
			Value:          e.Value,
			NormalizedKey:  domain.NormalizeValue(e.Value),
			Occurrences:    1,
			FirstSeen:      seen,
			LastSeen:       seen,
			SourceEmailIDs: []string{msg.ID},
		}
	}

	for _, r := range relationships {
		key := domain.RelationshipKey(r)
		if existing, ok := l.relationships[key]; ok {
			existing.Occurrences++
			existing.LastSeen = seen
			existing.SourceEmailIDs = append(existing.SourceEmailIDs, msg.ID)
			continue
		}
		l.relationships[key] = &domain.DiscoveredRelationship{
			FromType:       r.FromType,
			FromValue:      r.FromValue,
			Type:           r.Type,
			ToType:         r.ToType,
			ToValue:        r.ToValue,
			Occurrences:    1,
			FirstSeen:      seen,
			LastSeen:       seen,
			SourceEmailIDs: []string{msg.ID},
		}
	}

	l.emailsProcessed++
}

// Entities returns a snapshot of all discovered entities. Order is not
// guaranteed; callers sort as needed.
func (l *Ledger) Entities() []domain.DiscoveredEntity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.DiscoveredEntity, 0, len(l.entities))
	for _, e := range l.entities {
		out = append(out, *e)
	}
	return out
}

// Relationships returns a snapshot of all discovered relationships.
func (l *Ledger) Relationships() []domain.DiscoveredRelationship {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.DiscoveredRelationship, 0, len(l.relationships))
	for _, r := range l.relationships {
		out = append(out, *r)
	}
	return out
}

func (l *Ledger) Counts() (entities, relationships, emails int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entities), len(l.relationships), l.emailsProcessed
}

// ProgressSnapshot builds a point-in-time progress view for the given
// lifecycle state and loop position.
func (l *Ledger) ProgressSnapshot(state domain.ProcessingState, currentDay string, totalEmails, currentBatch, totalBatches int) domain.ProgressSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return domain.ProgressSnapshot{
		State:              state,
		CurrentDay:         currentDay,
		EmailsProcessed:    l.emailsProcessed,
		TotalEmails:        totalEmails,
		EntitiesFound:      len(l.entities),
		RelationshipsFound: len(l.relationships),
		CurrentBatch:       currentBatch,
		TotalBatches:       totalBatches,
	}
}

// RunSummary synthesizes the end-of-run report: per-type unique counts,
// top entities/relationships by occurrence, wall-clock duration, and the
// first/last-seen coverage window across all entities.
func (l *Ledger) RunSummary() domain.RunSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	byType := make(map[string]int)
	entities := make([]domain.DiscoveredEntity, 0, len(l.entities))
	var coverStart, coverEnd time.Time
	for _, e := range l.entities {
		byType[string(e.Type)]++
		entities = append(entities, *e)
		if coverStart.IsZero() || e.FirstSeen.Before(coverStart) {
			coverStart = e.FirstSeen
		}
		if e.LastSeen.After(coverEnd) {
			coverEnd = e.LastSeen
		}
	}

	relationships := make([]domain.DiscoveredRelationship, 0, len(l.relationships))
	for _, r := range l.relationships {
		relationships = append(relationships, *r)
	}

	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Occurrences != entities[j].Occurrences {
			return entities[i].Occurrences > entities[j].Occurrences
		}
		return entities[i].NormalizedKey < entities[j].NormalizedKey
	})
	sort.Slice(relationships, func(i, j int) bool {
		if relationships[i].Occurrences != relationships[j].Occurrences {
			return relationships[i].Occurrences > relationships[j].Occurrences
		}
		return relationships[i].FromValue < relationships[j].FromValue
	})

	if len(entities) > topItemLimit {
		entities = entities[:topItemLimit]
	}
	if len(relationships) > topItemLimit {
		relationships = relationships[:topItemLimit]
	}

	return domain.RunSummary{
		EmailsProcessed:   l.emailsProcessed,
		EntityCount:       len(l.entities),
		RelationshipCount: len(l.relationships),
		EntitiesByType:    byType,
		TopEntities:       entities,
		TopRelationships:  relationships,
		CoverageStart:     coverStart,
		CoverageEnd:       coverEnd,
		Duration:          time.Since(l.startedAt),
	}
}

// Reset clears all accumulated state and restarts the duration clock.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entities = make(map[string]*domain.DiscoveredEntity)
	l.relationships = make(map[string]*domain.DiscoveredRelationship)
	l.emailsProcessed = 0
	l.startedAt = time.Now()
}
