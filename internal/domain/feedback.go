package domain

import "time"

type FeedbackKind string

const (
	FeedbackKindEntity       FeedbackKind = "entity"
	FeedbackKindRelationship FeedbackKind = "relationship"
)

func ValidFeedbackKind(k string) bool {
	switch FeedbackKind(k) {
	case FeedbackKindEntity, FeedbackKindRelationship:
		return true
	}
	return false
}

type Judgment string

const (
	JudgmentPositive Judgment = "positive"
	JudgmentNegative Judgment = "negative"
)

func ValidJudgment(j string) bool {
	switch Judgment(j) {
	case JudgmentPositive, JudgmentNegative:
		return true
	}
	return false
}

// FeedbackContext captures where the reviewed extraction came from.
type FeedbackContext struct {
	Subject string `json:"subject,omitempty"`
	From    string `json:"from,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// ExtractedItem is the extraction being judged. For kind "entity" the
// Value/Type fields apply; for kind "relationship" the From/To fields do.
type ExtractedItem struct {
	Value      string  `json:"value,omitempty"`
	Type       string  `json:"type,omitempty"`
	Confidence float32 `json:"confidence,omitempty"`
	FromValue  string  `json:"from_value,omitempty"`
	ToValue    string  `json:"to_value,omitempty"`
}

// FeedbackRecord is one human judgment on an extracted item. Immutable
// once created, except for explicit delete.
type FeedbackRecord struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Kind       FeedbackKind    `json:"kind"`
	Context    FeedbackContext `json:"context"`
	Extracted  ExtractedItem   `json:"extracted"`
	Judgment   Judgment        `json:"judgment"`
	Correction string          `json:"correction,omitempty"`
}

// FeedbackStats aggregates judgment counts across the store.
type FeedbackStats struct {
	Total    int            `json:"total"`
	Positive int            `json:"positive"`
	Negative int            `json:"negative"`
	ByKind   map[string]int `json:"by_kind"`
	ByType   map[string]int `json:"by_type"`
}

// FewShotExample is a (wrong extraction, right extraction) pair derived
// from negative feedback. A nil Correct means the item should not have
// been extracted at all. Regenerated on every export, never stored.
type FewShotExample struct {
	Kind      FeedbackKind       `json:"kind"`
	Context   FeedbackContext    `json:"context"`
	Incorrect ExtractedItem      `json:"incorrect"`
	Correct   *CorrectExtraction `json:"correct"`
	Note      string             `json:"note,omitempty"`
}

// CorrectExtraction is what should have been extracted, per the human
// correction text.
type CorrectExtraction struct {
	Type      string `json:"type,omitempty"`
	Value     string `json:"value,omitempty"`
	RelType   string `json:"rel_type,omitempty"`
	FromValue string `json:"from_value,omitempty"`
	ToValue   string `json:"to_value,omitempty"`
}
