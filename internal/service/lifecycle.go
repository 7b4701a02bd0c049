package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Harshitk-cp/mailmap/internal/domain"
)

var ErrInvalidTransition = errors.New("invalid state transition")

// StateListener is notified with (previous, new) after every successful
// transition. The lifecycle has no knowledge of what listeners do.
type StateListener func(prev, next domain.ProcessingState)

// closed once at init; handed out as the resume gate whenever the
// machine is not paused so waiters never block.
var openGate = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// LifecycleService is the finite-state controller for the run lifecycle.
// The cancellation token it issues is a context.Context: Start creates a
// fresh one, Stop and Flush cancel it.
type LifecycleService struct {
	mu        sync.Mutex
	state     domain.ProcessingState
	runCtx    context.Context
	cancel    context.CancelFunc
	resume    chan struct{}
	listeners []StateListener
}

func NewLifecycleService() *LifecycleService {
	return &LifecycleService{state: domain.StateIdle}
}

func (s *LifecycleService) Subscribe(fn StateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *LifecycleService) State() domain.ProcessingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start transitions idle|stopped -> running and issues a fresh
// cancellation token for the run.
func (s *LifecycleService) Start() (context.Context, error) {
	s.mu.Lock()
	if s.state != domain.StateIdle && s.state != domain.StateStopped {
		st := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot start from %s", ErrInvalidTransition, st)
	}
	prev := s.state
	s.runCtx, s.cancel = context.WithCancel(context.Background())
	ctx := s.runCtx
	s.setStateLocked(domain.StateRunning)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, prev, domain.StateRunning)
	return ctx, nil
}

// Pause transitions running -> paused and closes the resume gate behind
// a fresh channel so workers block until Resume.
func (s *LifecycleService) Pause() error {
	s.mu.Lock()
	if s.state != domain.StateRunning {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot pause from %s", ErrInvalidTransition, st)
	}
	prev := s.state
	s.resume = make(chan struct{})
	s.setStateLocked(domain.StatePaused)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, prev, domain.StatePaused)
	return nil
}

// Resume transitions paused -> running and releases waiting workers.
func (s *LifecycleService) Resume() error {
	s.mu.Lock()
	if s.state != domain.StatePaused {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot resume from %s", ErrInvalidTransition, st)
	}
	prev := s.state
	s.releaseGateLocked()
	s.setStateLocked(domain.StateRunning)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, prev, domain.StateRunning)
	return nil
}

// Stop transitions running|paused -> stopped and signals the cancellation
// token. A stop issued while paused also releases the resume gate so the
// worker observes cancellation promptly.
func (s *LifecycleService) Stop() error {
	s.mu.Lock()
	if s.state != domain.StateRunning && s.state != domain.StatePaused {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot stop from %s", ErrInvalidTransition, st)
	}
	prev := s.state
	if s.cancel != nil {
		s.cancel()
	}
	s.releaseGateLocked()
	s.setStateLocked(domain.StateStopped)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, prev, domain.StateStopped)
	return nil
}

// Complete is the normal end-of-run transition back to idle, issued by
// the coordinator itself rather than external callers.
func (s *LifecycleService) Complete() error {
	s.mu.Lock()
	if s.state == domain.StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot complete from idle", ErrInvalidTransition)
	}
	prev := s.state
	s.releaseGateLocked()
	s.runCtx, s.cancel = nil, nil
	s.setStateLocked(domain.StateIdle)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, prev, domain.StateIdle)
	return nil
}

// Flush is the hard reset: allowed from any state, cancels and discards
// the token. Callers clear dependent state (the ledger) themselves.
func (s *LifecycleService) Flush() {
	s.mu.Lock()
	prev := s.state
	if s.cancel != nil {
		s.cancel()
	}
	s.releaseGateLocked()
	s.runCtx, s.cancel = nil, nil
	s.setStateLocked(domain.StateIdle)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, prev, domain.StateIdle)
}

// ResumeGate returns a channel that is closed whenever the machine is not
// paused. A worker that selects on it together with its run context gets
// "wait until resumed or cancelled" without polling.
func (s *LifecycleService) ResumeGate() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StatePaused {
		return s.resume
	}
	return openGate
}

func (s *LifecycleService) setStateLocked(next domain.ProcessingState) {
	s.state = next
}

func (s *LifecycleService) releaseGateLocked() {
	if s.resume != nil {
		close(s.resume)
		s.resume = nil
	}
}

func notify(listeners []StateListener, prev, next domain.ProcessingState) {
	if prev == next {
		return
	}
	for _, fn := range listeners {
		fn(prev, next)
	}
}
