package domain

import "time"

type RelationshipType string

const (
	RelWorksWith RelationshipType = "WORKS_WITH"
	RelWorksFor  RelationshipType = "WORKS_FOR"
	RelWorksOn   RelationshipType = "WORKS_ON"
	RelMemberOf  RelationshipType = "MEMBER_OF"
	RelUses      RelationshipType = "USES"
	RelDiscussed RelationshipType = "DISCUSSED"
	RelLocatedIn RelationshipType = "LOCATED_IN"
	RelRelatedTo RelationshipType = "RELATED_TO"
)

func ValidRelationshipType(t string) bool {
	switch RelationshipType(t) {
	case RelWorksWith, RelWorksFor, RelWorksOn, RelMemberOf,
		RelUses, RelDiscussed, RelLocatedIn, RelRelatedTo:
		return true
	}
	return false
}

// Relationship is a single directed edge extracted from one email.
type Relationship struct {
	FromType   EntityType       `json:"from_type"`
	FromValue  string           `json:"from_value"`
	Type       RelationshipType `json:"type"`
	ToType     EntityType       `json:"to_type"`
	ToValue    string           `json:"to_value"`
	Confidence float32          `json:"confidence"`
	Evidence   string           `json:"evidence,omitempty"`
}

// DiscoveredRelationship accumulates every sighting of one directed edge
// identity across a run. Same lifecycle rules as DiscoveredEntity.
type DiscoveredRelationship struct {
	FromType       EntityType       `json:"from_type"`
	FromValue      string           `json:"from_value"`
	Type           RelationshipType `json:"type"`
	ToType         EntityType       `json:"to_type"`
	ToValue        string           `json:"to_value"`
	Occurrences    int              `json:"occurrences"`
	FirstSeen      time.Time        `json:"first_seen"`
	LastSeen       time.Time        `json:"last_seen"`
	SourceEmailIDs []string         `json:"source_email_ids"`
}

// RelationshipKey is the dedup identity of a relationship within a run.
// Direction matters: A WORKS_FOR B and B WORKS_FOR A are distinct.
func RelationshipKey(r Relationship) string {
	return EntityKey(r.FromType, r.FromValue) + "|" + string(r.Type) + "|" + EntityKey(r.ToType, r.ToValue)
}
