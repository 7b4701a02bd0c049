package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/domain"
)

// mockMessageSource serves canned messages keyed by day. Days without an
// entry yield an empty result; days in failDays return an error.
type mockMessageSource struct {
	mu       sync.Mutex
	byDay    map[string][]domain.EmailMessage
	failDays map[string]bool
	fetched  []string
}

func newMockMessageSource() *mockMessageSource {
	return &mockMessageSource{
		byDay:    make(map[string][]domain.EmailMessage),
		failDays: make(map[string]bool),
	}
}

func (m *mockMessageSource) FetchDay(ctx context.Context, day time.Time, max int) ([]domain.EmailMessage, error) {
	key := day.Format("2006-01-02")

	m.mu.Lock()
	m.fetched = append(m.fetched, key)
	msgs := m.byDay[key]
	fail := m.failDays[key]
	m.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("fetch %s: backend unavailable", key)
	}
	if len(msgs) > max {
		msgs = msgs[:max]
	}
	return msgs, nil
}

func (m *mockMessageSource) fetchedDays() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

// mockClassifier returns a fixed classification, or dispatches per message
// through fn when set.
type mockClassifier struct {
	mu       sync.Mutex
	response *domain.Classification
	err      error
	fn       func(msg domain.EmailMessage) (*domain.Classification, error)
	calls    int
}

func (m *mockClassifier) Classify(ctx context.Context, msg domain.EmailMessage) (*domain.Classification, error) {
	m.mu.Lock()
	m.calls++
	fn, resp, err := m.fn, m.response, m.err
	m.mu.Unlock()

	if fn != nil {
		return fn(msg)
	}
	if err != nil {
		return nil, err
	}
	if resp != nil {
		return resp, nil
	}
	return &domain.Classification{}, nil
}

func (m *mockClassifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockSink records every event it receives. Setting failAfter >= 0 makes
// Send fail once that many events have been accepted.
type mockSink struct {
	mu        sync.Mutex
	events    []domain.Event
	failAfter int
}

func newMockSink() *mockSink {
	return &mockSink{failAfter: -1}
}

func (s *mockSink) Send(ev domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter >= 0 && len(s.events) >= s.failAfter {
		return fmt.Errorf("sink closed")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *mockSink) all() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...)
}

func (s *mockSink) ofType(t domain.EventType) []domain.Event {
	var out []domain.Event
	for _, ev := range s.all() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// mockContactStore keeps contacts in memory keyed by email.
type mockContactStore struct {
	mu       sync.Mutex
	byEmail  map[string]domain.ExternalContact
	nextID   int
	findErr  error
	creates  int
	updates  int
}

func newMockContactStore() *mockContactStore {
	return &mockContactStore{byEmail: make(map[string]domain.ExternalContact)}
}

func (m *mockContactStore) FindByEmail(ctx context.Context, email string) (*domain.ExternalContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if c, ok := m.byEmail[strings.ToLower(email)]; ok {
		out := c
		return &out, nil
	}
	return nil, nil
}

func (m *mockContactStore) Create(ctx context.Context, c domain.ExternalContact) (*domain.ExternalContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.creates++
	c.ResourceName = fmt.Sprintf("people/c%d", m.nextID)
	if c.Email != "" {
		m.byEmail[strings.ToLower(c.Email)] = c
	}
	return &c, nil
}

func (m *mockContactStore) Update(ctx context.Context, c domain.ExternalContact) (*domain.ExternalContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if c.Email != "" {
		m.byEmail[strings.ToLower(c.Email)] = c
	}
	return &c, nil
}

// mockTaskStore keeps lists and tasks in memory.
type mockTaskStore struct {
	mu      sync.Mutex
	lists   map[string]domain.ExternalTaskList
	tasks   map[string][]domain.ExternalTask
	nextID  int
	listErr error
	creates int
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{
		lists: make(map[string]domain.ExternalTaskList),
		tasks: make(map[string][]domain.ExternalTask),
	}
}

func (m *mockTaskStore) FindList(ctx context.Context, name string) (*domain.ExternalTaskList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	for _, l := range m.lists {
		if strings.EqualFold(l.Title, name) {
			out := l
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockTaskStore) CreateList(ctx context.Context, name string) (*domain.ExternalTaskList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	list := domain.ExternalTaskList{ID: fmt.Sprintf("list-%d", m.nextID), Title: name}
	m.lists[list.ID] = list
	return &list, nil
}

func (m *mockTaskStore) ListTasks(ctx context.Context, listID string) ([]domain.ExternalTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ExternalTask(nil), m.tasks[listID]...), nil
}

func (m *mockTaskStore) CreateTask(ctx context.Context, listID, title, notes string) (*domain.ExternalTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.creates++
	task := domain.ExternalTask{ID: fmt.Sprintf("task-%d", m.nextID), ListID: listID, Title: title, Notes: notes}
	m.tasks[listID] = append(m.tasks[listID], task)
	return &task, nil
}
