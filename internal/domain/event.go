package domain

// EventType identifies the shape of an Event's payload.
type EventType string

const (
	EventConnected    EventType = "connected"
	EventPing         EventType = "ping"
	EventStateChange  EventType = "state_change"
	EventProgress     EventType = "progress"
	EventEmail        EventType = "email"
	EventRelationship EventType = "relationship"
	EventError        EventType = "error"
	EventComplete     EventType = "complete"
	EventContactSync  EventType = "contact_sync"
	EventTaskSync     EventType = "task_sync"
	EventFeedback     EventType = "feedback"
)

// Event is one message on the push stream.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// EventSink receives published events. A sink whose Send fails is dropped
// from future deliveries.
type EventSink interface {
	Send(ev Event) error
}

type StateChangePayload struct {
	PreviousState ProcessingState `json:"previousState"`
	NewState      ProcessingState `json:"newState"`
}

type ProgressPayload struct {
	State              ProcessingState `json:"state"`
	CurrentDay         string          `json:"currentDay"`
	EmailsProcessed    int             `json:"emailsProcessed"`
	TotalEmails        int             `json:"totalEmails"`
	EntitiesFound      int             `json:"entitiesFound"`
	RelationshipsFound int             `json:"relationshipsFound"`
	CurrentBatch       int             `json:"currentBatch"`
	TotalBatches       int             `json:"totalBatches"`
}

type EmailPayload struct {
	Email         EmailMessage   `json:"email"`
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	IsSpam        bool           `json:"isSpam"`
	SpamScore     float32        `json:"spamScore"`
}

type RelationshipPayload struct {
	Relationship Relationship `json:"relationship"`
	SourceEmail  string       `json:"sourceEmail"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type CompletePayload struct {
	Summary RunSummary `json:"summary"`
}

type ContactSyncPayload struct {
	EntityValue  string `json:"entityValue"`
	Action       string `json:"action"`
	ResourceName string `json:"resourceName,omitempty"`
	Error        string `json:"error,omitempty"`
	Current      int    `json:"current"`
	Total        int    `json:"total"`
}

type TaskSyncPayload struct {
	EntityValue string `json:"entityValue"`
	Action      string `json:"action"`
	TaskID      string `json:"taskId,omitempty"`
	TaskListID  string `json:"taskListId,omitempty"`
	Error       string `json:"error,omitempty"`
	Current     int    `json:"current"`
	Total       int    `json:"total"`
}

type FeedbackPayload struct {
	FeedbackID       string `json:"feedbackId"`
	FeedbackType     string `json:"feedbackType"`
	Value            string `json:"value"`
	Feedback         string `json:"feedback"`
	EntityType       string `json:"entityType,omitempty"`
	RelationshipType string `json:"relationshipType,omitempty"`
}
