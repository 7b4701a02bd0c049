package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TaskSyncService pushes discovered action items into the external task
// store. The target list is found by name or created; duplicates are
// detected by case-insensitive exact title match and skipped, not errored.
type TaskSyncService struct {
	store  domain.TaskStore
	events *Broadcaster
	pacer  *rate.Limiter
	logger *zap.Logger
}

func NewTaskSyncService(store domain.TaskStore, events *Broadcaster, callDelay time.Duration, logger *zap.Logger) *TaskSyncService {
	return &TaskSyncService{
		store:  store,
		events: events,
		pacer:  rate.NewLimiter(rate.Every(callDelay), 1),
		logger: logger,
	}
}

// SyncEntities syncs each action item into the named list. Failing to
// resolve the list aborts the batch; individual item failures become
// skipped results.
func (s *TaskSyncService) SyncEntities(ctx context.Context, entities []domain.Entity, listName string) (SyncSummary, error) {
	var summary SyncSummary

	list, err := s.ensureList(ctx, listName)
	if err != nil {
		return summary, fmt.Errorf("resolve task list %q: %w", listName, err)
	}

	existing, err := s.store.ListTasks(ctx, list.ID)
	if err != nil {
		return summary, fmt.Errorf("list tasks in %q: %w", listName, err)
	}
	titles := make(map[string]string, len(existing))
	for _, t := range existing {
		titles[strings.ToLower(strings.TrimSpace(t.Title))] = t.ID
	}

	for i, e := range entities {
		if err := s.pacer.Wait(ctx); err != nil {
			return summary, err
		}

		res := s.syncOne(ctx, e, list.ID, titles)
		summary.add(res)

		s.events.Publish(domain.Event{Type: domain.EventTaskSync, Data: domain.TaskSyncPayload{
			EntityValue: res.EntityValue,
			Action:      res.Action,
			TaskID:      res.ExternalID,
			TaskListID:  list.ID,
			Error:       res.Error,
			Current:     i + 1,
			Total:       len(entities),
		}})
	}

	s.logger.Info("task sync finished",
		zap.String("list", listName),
		zap.Int("total", summary.Total),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors))
	return summary, nil
}

func (s *TaskSyncService) syncOne(ctx context.Context, e domain.Entity, listID string, titles map[string]string) SyncResult {
	key := strings.ToLower(strings.TrimSpace(e.Value))
	if id, ok := titles[key]; ok {
		return SyncResult{EntityValue: e.Value, Action: SyncActionSkipped, ExternalID: id}
	}

	task, err := s.store.CreateTask(ctx, listID, e.Value, e.Context)
	if err != nil {
		return SyncResult{EntityValue: e.Value, Action: SyncActionSkipped, Error: err.Error()}
	}
	titles[key] = task.ID
	return SyncResult{EntityValue: e.Value, Action: SyncActionCreated, ExternalID: task.ID}
}

func (s *TaskSyncService) ensureList(ctx context.Context, name string) (*domain.ExternalTaskList, error) {
	list, err := s.store.FindList(ctx, name)
	if err != nil {
		return nil, err
	}
	if list != nil {
		return list, nil
	}
	return s.store.CreateList(ctx, name)
}
