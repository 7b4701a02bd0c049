package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	tasksapi "google.golang.org/api/tasks/v1"
)

// TasksStore implements the task store over the Google Tasks API.
type TasksStore struct {
	svc *tasksapi.Service
}

func NewTasksStore(svc *tasksapi.Service) *TasksStore {
	return &TasksStore{svc: svc}
}

// FindList returns the task list with the given title, or (nil, nil)
// when none exists.
func (t *TasksStore) FindList(ctx context.Context, name string) (*domain.ExternalTaskList, error) {
	lists, err := t.svc.Tasklists.List().MaxResults(100).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list task lists: %w", err)
	}
	for _, l := range lists.Items {
		if strings.EqualFold(l.Title, name) {
			return &domain.ExternalTaskList{ID: l.Id, Title: l.Title}, nil
		}
	}
	return nil, nil
}

func (t *TasksStore) CreateList(ctx context.Context, name string) (*domain.ExternalTaskList, error) {
	created, err := t.svc.Tasklists.Insert(&tasksapi.TaskList{Title: name}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create task list %q: %w", name, err)
	}
	return &domain.ExternalTaskList{ID: created.Id, Title: created.Title}, nil
}

func (t *TasksStore) ListTasks(ctx context.Context, listID string) ([]domain.ExternalTask, error) {
	resp, err := t.svc.Tasks.List(listID).MaxResults(100).ShowCompleted(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]domain.ExternalTask, 0, len(resp.Items))
	for _, item := range resp.Items {
		tasks = append(tasks, domain.ExternalTask{
			ID:     item.Id,
			ListID: listID,
			Title:  item.Title,
			Notes:  item.Notes,
		})
	}
	return tasks, nil
}

func (t *TasksStore) CreateTask(ctx context.Context, listID, title, notes string) (*domain.ExternalTask, error) {
	created, err := t.svc.Tasks.Insert(listID, &tasksapi.Task{Title: title, Notes: notes}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create task %q: %w", title, err)
	}
	return &domain.ExternalTask{ID: created.Id, ListID: listID, Title: created.Title, Notes: created.Notes}, nil
}
