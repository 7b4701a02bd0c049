package service

import (
	"fmt"
	"sync"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	"go.uber.org/zap"
)

// Broadcaster fans events out to every subscribed sink. It is a pure
// transport: it knows nothing about event semantics. A sink whose Send
// fails (or panics) is dropped so one broken observer can never affect
// delivery to the others or abort the publisher.
type Broadcaster struct {
	mu     sync.Mutex
	sinks  map[domain.EventSink]struct{}
	logger *zap.Logger
}

func NewBroadcaster(logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		sinks:  make(map[domain.EventSink]struct{}),
		logger: logger,
	}
}

func (b *Broadcaster) Subscribe(sink domain.EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks[sink] = struct{}{}
}

func (b *Broadcaster) Unsubscribe(sink domain.EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sinks, sink)
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sinks)
}

// Publish delivers ev to every subscriber, evicting any sink that fails.
func (b *Broadcaster) Publish(ev domain.Event) {
	b.mu.Lock()
	sinks := make([]domain.EventSink, 0, len(b.sinks))
	for sink := range b.sinks {
		sinks = append(sinks, sink)
	}
	b.mu.Unlock()

	var failed []domain.EventSink
	for _, sink := range sinks {
		if err := send(sink, ev); err != nil {
			failed = append(failed, sink)
			b.logger.Debug("dropping event sink", zap.String("event", string(ev.Type)), zap.Error(err))
		}
	}

	if len(failed) > 0 {
		b.mu.Lock()
		for _, sink := range failed {
			delete(b.sinks, sink)
		}
		b.mu.Unlock()
	}
}

func send(sink domain.EventSink, ev domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	return sink.Send(ev)
}
