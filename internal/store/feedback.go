package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/google/uuid"
)

var ErrFeedbackNotFound = errors.New("feedback record not found")

// FeedbackStore holds human judgments on extracted items. Records are
// append-only (create and explicit delete only) and round-trip to a
// line-delimited JSON format keyed by record id, so exported files are
// portable and mergeable.
type FeedbackStore struct {
	mu      sync.RWMutex
	records map[string]domain.FeedbackRecord
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{records: make(map[string]domain.FeedbackRecord)}
}

// Record creates and stores a new feedback record with a generated id and
// timestamp, returning the stored record.
func (s *FeedbackStore) Record(kind domain.FeedbackKind, item domain.ExtractedItem, judgment domain.Judgment, ctx domain.FeedbackContext, correction string) domain.FeedbackRecord {
	rec := domain.FeedbackRecord{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Kind:       kind,
		Context:    ctx,
		Extracted:  item,
		Judgment:   judgment,
		Correction: correction,
	}

	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()

	return rec
}

func (s *FeedbackStore) Get(id string) (domain.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return domain.FeedbackRecord{}, ErrFeedbackNotFound
	}
	return rec, nil
}

func (s *FeedbackStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrFeedbackNotFound
	}
	delete(s.records, id)
	return nil
}

// List returns all records ordered by timestamp, then id for stability.
func (s *FeedbackStore) List() []domain.FeedbackRecord {
	s.mu.RLock()
	out := make([]domain.FeedbackRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *FeedbackStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Stats computes judgment counts overall, per kind, and per extracted
// subtype (entity type or relationship type).
func (s *FeedbackStore) Stats() domain.FeedbackStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.FeedbackStats{
		ByKind: make(map[string]int),
		ByType: make(map[string]int),
	}
	for _, rec := range s.records {
		stats.Total++
		switch rec.Judgment {
		case domain.JudgmentPositive:
			stats.Positive++
		case domain.JudgmentNegative:
			stats.Negative++
		}
		stats.ByKind[string(rec.Kind)]++
		if rec.Extracted.Type != "" {
			stats.ByType[rec.Extracted.Type]++
		}
	}
	return stats
}

// ExportLines serializes the full record set as one JSON object per line.
func (s *FeedbackStore) ExportLines() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range s.List() {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("encode feedback record %s: %w", rec.ID, err)
		}
	}
	return buf.Bytes(), nil
}

// LoadLines merges line-delimited records into the store, keyed by id.
// Reloading the same file is idempotent. Returns how many records were
// read. Blank lines are skipped; a malformed line aborts the load.
func (s *FeedbackStore) LoadLines(data []byte) (int, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var loaded int
	s.mu.Lock()
	defer s.mu.Unlock()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec domain.FeedbackRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return loaded, fmt.Errorf("parse feedback line: %w", err)
		}
		if rec.ID == "" {
			return loaded, fmt.Errorf("feedback line missing id")
		}
		s.records[rec.ID] = rec
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("scan feedback lines: %w", err)
	}
	return loaded, nil
}

// Save writes the full record set to path.
func (s *FeedbackStore) Save(path string) error {
	data, err := s.ExportLines()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write feedback file: %w", err)
	}
	return nil
}

// Load merges records from path into the store. A missing file is not an
// error; the store simply starts empty.
func (s *FeedbackStore) Load(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read feedback file: %w", err)
	}
	return s.LoadLines(data)
}
