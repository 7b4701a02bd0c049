package domain

import "time"

// ProgressSnapshot is a point-in-time view of an in-flight run.
type ProgressSnapshot struct {
	State              ProcessingState `json:"state"`
	CurrentDay         string          `json:"currentDay"`
	EmailsProcessed    int             `json:"emailsProcessed"`
	TotalEmails        int             `json:"totalEmails"`
	EntitiesFound      int             `json:"entitiesFound"`
	RelationshipsFound int             `json:"relationshipsFound"`
	CurrentBatch       int             `json:"currentBatch"`
	TotalBatches       int             `json:"totalBatches"`
}

// RunSummary is the end-of-run aggregate report.
type RunSummary struct {
	EmailsProcessed   int                      `json:"emailsProcessed"`
	EntityCount       int                      `json:"entityCount"`
	RelationshipCount int                      `json:"relationshipCount"`
	EntitiesByType    map[string]int           `json:"entitiesByType"`
	TopEntities       []DiscoveredEntity       `json:"topEntities"`
	TopRelationships  []DiscoveredRelationship `json:"topRelationships"`
	CoverageStart     time.Time                `json:"coverageStart"`
	CoverageEnd       time.Time                `json:"coverageEnd"`
	Duration          time.Duration            `json:"duration"`
}
