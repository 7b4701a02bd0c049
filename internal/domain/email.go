package domain

import (
	"context"
	"time"
)

// EmailMessage is one outbound message fetched from the message source.
type EmailMessage struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	From    string    `json:"from"`
	To      []string  `json:"to"`
	Date    time.Time `json:"date"`
	Snippet string    `json:"snippet"`
	Body    string    `json:"body,omitempty"`
}

// Classification is the classifier's verdict on a single email.
type Classification struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	IsSpam        bool           `json:"is_spam"`
	SpamScore     float32        `json:"spam_score"`
}

// MessageSource fetches a user's outbound messages for one calendar day.
// Implementations cap the result at max messages.
type MessageSource interface {
	FetchDay(ctx context.Context, day time.Time, max int) ([]EmailMessage, error)
}

// Classifier turns one email into entities and relationships. The pipeline
// treats it as an opaque black box behind this interface.
type Classifier interface {
	Classify(ctx context.Context, msg EmailMessage) (*Classification, error)
}
