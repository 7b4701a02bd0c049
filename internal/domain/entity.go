package domain

import (
	"strings"
	"time"
)

type EntityType string

const (
	EntityTypePerson       EntityType = "person"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeProject      EntityType = "project"
	EntityTypeTool         EntityType = "tool"
	EntityTypeTopic        EntityType = "topic"
	EntityTypeLocation     EntityType = "location"
	EntityTypeActionItem   EntityType = "action_item"
)

func ValidEntityType(t string) bool {
	switch EntityType(t) {
	case EntityTypePerson, EntityTypeOrganization, EntityTypeProject,
		EntityTypeTool, EntityTypeTopic, EntityTypeLocation, EntityTypeActionItem:
		return true
	}
	return false
}

// Entity is a single extraction from one email, as produced by the classifier.
type Entity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Confidence float32    `json:"confidence"`
	Context    string     `json:"context,omitempty"`
}

// DiscoveredEntity accumulates every sighting of one entity identity
// across a run. Identity is (Type, NormalizedKey); sightings only ever
// increment counters and extend source lists, never delete.
type DiscoveredEntity struct {
	Type           EntityType `json:"type"`
	Value          string     `json:"value"`
	NormalizedKey  string     `json:"normalized_key"`
	Occurrences    int        `json:"occurrences"`
	FirstSeen      time.Time  `json:"first_seen"`
	LastSeen       time.Time  `json:"last_seen"`
	SourceEmailIDs []string   `json:"source_email_ids"`
}

// NormalizeValue canonicalizes an entity value for identity comparison:
// lowercased, whitespace runs collapsed to single spaces, trimmed.
// The same function must be used for recording and lookup.
func NormalizeValue(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}

// EntityKey is the dedup identity of an entity within a run.
func EntityKey(t EntityType, value string) string {
	return string(t) + ":" + NormalizeValue(value)
}
