package llm

import (
	"context"

	"github.com/Harshitk-cp/mailmap/internal/domain"
)

// MockClassifier is a configurable classifier for testing. Set the
// response fields to control what Classify returns.
type MockClassifier struct {
	Response *domain.Classification
	Err      error

	// ClassifyFunc, when set, takes precedence over the static fields.
	ClassifyFunc func(ctx context.Context, msg domain.EmailMessage) (*domain.Classification, error)

	// Call tracking for assertions
	Calls []domain.EmailMessage
}

func NewMockClassifier() *MockClassifier {
	return &MockClassifier{Response: &domain.Classification{}}
}

func (m *MockClassifier) Classify(ctx context.Context, msg domain.EmailMessage) (*domain.Classification, error) {
	m.Calls = append(m.Calls, msg)
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, msg)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}
