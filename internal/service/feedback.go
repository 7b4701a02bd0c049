package service

import (
	"errors"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/store"
)

var (
	ErrFeedbackInvalidKind     = errors.New("invalid feedback kind")
	ErrFeedbackInvalidJudgment = errors.New("invalid judgment")
	ErrFeedbackEmptyItem       = errors.New("extracted item is empty")
)

// FeedbackService validates and records human judgments, announcing each
// one on the event stream.
type FeedbackService struct {
	store  *store.FeedbackStore
	events *Broadcaster
}

func NewFeedbackService(feedback *store.FeedbackStore, events *Broadcaster) *FeedbackService {
	return &FeedbackService{store: feedback, events: events}
}

func (s *FeedbackService) Record(kind, judgment string, item domain.ExtractedItem, ctx domain.FeedbackContext, correction string) (domain.FeedbackRecord, error) {
	if !domain.ValidFeedbackKind(kind) {
		return domain.FeedbackRecord{}, ErrFeedbackInvalidKind
	}
	if !domain.ValidJudgment(judgment) {
		return domain.FeedbackRecord{}, ErrFeedbackInvalidJudgment
	}
	if item.Value == "" && item.FromValue == "" && item.ToValue == "" {
		return domain.FeedbackRecord{}, ErrFeedbackEmptyItem
	}

	rec := s.store.Record(domain.FeedbackKind(kind), item, domain.Judgment(judgment), ctx, correction)

	payload := domain.FeedbackPayload{
		FeedbackID:   rec.ID,
		FeedbackType: string(rec.Kind),
		Value:        rec.Extracted.Value,
		Feedback:     string(rec.Judgment),
	}
	switch rec.Kind {
	case domain.FeedbackKindEntity:
		payload.EntityType = rec.Extracted.Type
	case domain.FeedbackKindRelationship:
		payload.RelationshipType = rec.Extracted.Type
	}
	s.events.Publish(domain.Event{Type: domain.EventFeedback, Data: payload})

	return rec, nil
}

func (s *FeedbackService) Stats() domain.FeedbackStats {
	return s.store.Stats()
}

func (s *FeedbackService) ExportLines() ([]byte, error) {
	return s.store.ExportLines()
}

func (s *FeedbackService) Import(data []byte) (int, error) {
	return s.store.LoadLines(data)
}
