package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/mailmap/internal/domain"
)

const classifySystemPrompt = `You extract structured knowledge from a user's outbound email.
Identify entities and directed relationships, and flag spam.

Entity types: person, organization, project, tool, topic, location, action_item.
Relationship types: WORKS_WITH, WORKS_FOR, WORKS_ON, MEMBER_OF, USES, DISCUSSED, LOCATED_IN, RELATED_TO.

Respond with JSON only, no prose:
{
  "entities": [{"type": "...", "value": "...", "confidence": 0.0, "context": "..."}],
  "relationships": [{"from_type": "...", "from_value": "...", "type": "...", "to_type": "...", "to_value": "...", "confidence": 0.0, "evidence": "..."}],
  "is_spam": false,
  "spam_score": 0.0
}`

func classifyUserPrompt(msg domain.EmailMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	fmt.Fprintf(&b, "From: %s\n", msg.From)
	if len(msg.To) > 0 {
		fmt.Fprintf(&b, "To: %s\n", strings.Join(msg.To, ", "))
	}
	fmt.Fprintf(&b, "Date: %s\n\n", msg.Date.Format("2006-01-02"))
	if msg.Body != "" {
		b.WriteString(msg.Body)
	} else {
		b.WriteString(msg.Snippet)
	}
	return b.String()
}

// parseClassification decodes the model's JSON reply, tolerating markdown
// code fences, and drops extractions with unknown types rather than
// failing the whole message.
func parseClassification(raw string) (*domain.Classification, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var cls domain.Classification
	if err := json.Unmarshal([]byte(raw), &cls); err != nil {
		return nil, fmt.Errorf("parse classification response: %w", err)
	}

	entities := cls.Entities[:0]
	for _, e := range cls.Entities {
		if domain.ValidEntityType(string(e.Type)) && strings.TrimSpace(e.Value) != "" {
			entities = append(entities, e)
		}
	}
	cls.Entities = entities

	relationships := cls.Relationships[:0]
	for _, r := range cls.Relationships {
		if domain.ValidRelationshipType(string(r.Type)) &&
			strings.TrimSpace(r.FromValue) != "" && strings.TrimSpace(r.ToValue) != "" {
			relationships = append(relationships, r)
		}
	}
	cls.Relationships = relationships

	return &cls, nil
}
