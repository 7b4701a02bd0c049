package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"go.uber.org/zap"
)

func newTaskFixture() (*TaskSyncService, *mockTaskStore, *mockSink) {
	store := newMockTaskStore()
	sink := newMockSink()
	events := NewBroadcaster(zap.NewNop())
	events.Subscribe(sink)
	svc := NewTaskSyncService(store, events, time.Microsecond, zap.NewNop())
	return svc, store, sink
}

func actionItem(v string) domain.Entity {
	return domain.Entity{Type: domain.EntityTypeActionItem, Value: v}
}

func TestTaskSync_CreatesListWhenMissing(t *testing.T) {
	svc, store, _ := newTaskFixture()

	summary, err := svc.SyncEntities(context.Background(),
		[]domain.Entity{actionItem("send contract")}, "Follow-ups")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	list, _ := store.FindList(context.Background(), "Follow-ups")
	if list == nil {
		t.Fatal("expected target list to be created")
	}
}

func TestTaskSync_ReusesExistingList(t *testing.T) {
	svc, store, _ := newTaskFixture()
	existing, _ := store.CreateList(context.Background(), "Follow-ups")

	if _, err := svc.SyncEntities(context.Background(),
		[]domain.Entity{actionItem("send contract")}, "follow-ups"); err != nil {
		t.Fatalf("sync: %v", err)
	}

	if len(store.lists) != 1 {
		t.Fatalf("expected case-insensitive list reuse, got %d lists", len(store.lists))
	}
	tasks, _ := store.ListTasks(context.Background(), existing.ID)
	if len(tasks) != 1 {
		t.Fatalf("expected task in the existing list, got %d", len(tasks))
	}
}

func TestTaskSync_DuplicateTitleSkipped(t *testing.T) {
	svc, store, _ := newTaskFixture()
	list, _ := store.CreateList(context.Background(), "Follow-ups")
	_, _ = store.CreateTask(context.Background(), list.ID, "Send Contract", "")
	store.creates = 0

	summary, err := svc.SyncEntities(context.Background(),
		[]domain.Entity{actionItem("send contract")}, "Follow-ups")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if summary.Skipped != 1 || summary.Created != 0 {
		t.Fatalf("expected case-insensitive duplicate skip, got %+v", summary)
	}
	if store.creates != 0 {
		t.Fatalf("expected no task creation, got %d", store.creates)
	}
}

func TestTaskSync_IntraBatchDuplicateSkipped(t *testing.T) {
	svc, store, _ := newTaskFixture()

	summary, err := svc.SyncEntities(context.Background(),
		[]domain.Entity{actionItem("send contract"), actionItem("Send Contract")}, "Follow-ups")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if summary.Created != 1 || summary.Skipped != 1 {
		t.Fatalf("expected second occurrence skipped within the batch, got %+v", summary)
	}
	if store.creates != 1 {
		t.Fatalf("expected one created task, got %d", store.creates)
	}
}

func TestTaskSync_ListResolutionFailureAbortsBatch(t *testing.T) {
	svc, store, _ := newTaskFixture()
	store.listErr = errors.New("tasks api unavailable")

	_, err := svc.SyncEntities(context.Background(),
		[]domain.Entity{actionItem("send contract")}, "Follow-ups")
	if err == nil {
		t.Fatal("expected list resolution failure to abort the batch")
	}
}

func TestTaskSync_PublishesProgressEvents(t *testing.T) {
	svc, _, sink := newTaskFixture()

	if _, err := svc.SyncEntities(context.Background(),
		[]domain.Entity{actionItem("a"), actionItem("b")}, "Follow-ups"); err != nil {
		t.Fatalf("sync: %v", err)
	}

	events := sink.ofType(domain.EventTaskSync)
	if len(events) != 2 {
		t.Fatalf("expected 2 sync events, got %d", len(events))
	}
	payload := events[0].Data.(domain.TaskSyncPayload)
	if payload.TaskListID == "" {
		t.Fatal("expected list id on the event")
	}
}
