package domain

import "context"

// ExternalContact is a contact as the external store knows it.
type ExternalContact struct {
	ResourceName string `json:"resource_name"`
	GivenName    string `json:"given_name"`
	FamilyName   string `json:"family_name"`
	Email        string `json:"email,omitempty"`
}

// ContactStore is the external contact store's write surface.
type ContactStore interface {
	FindByEmail(ctx context.Context, email string) (*ExternalContact, error)
	Create(ctx context.Context, c ExternalContact) (*ExternalContact, error)
	Update(ctx context.Context, c ExternalContact) (*ExternalContact, error)
}

// ExternalTaskList is a task list as the external store knows it.
type ExternalTaskList struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ExternalTask is a task as the external store knows it.
type ExternalTask struct {
	ID     string `json:"id"`
	ListID string `json:"list_id"`
	Title  string `json:"title"`
	Notes  string `json:"notes,omitempty"`
}

// TaskStore is the external task store's write surface.
type TaskStore interface {
	FindList(ctx context.Context, name string) (*ExternalTaskList, error)
	CreateList(ctx context.Context, name string) (*ExternalTaskList, error)
	ListTasks(ctx context.Context, listID string) ([]ExternalTask, error)
	CreateTask(ctx context.Context, listID, title, notes string) (*ExternalTask, error)
}
