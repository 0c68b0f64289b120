// Package broadcast fans newly accepted events out to live subscribers.
// Delivery is best-effort, at-most-once, with no backlog replay.
package broadcast

import (
	"sync"

	"go.uber.org/zap"

	"github.com/zeph-ai-dev/starpulse/internal/domain"
)

// Subscriber is an ephemeral handle to one live connection. Events arrive
// on C from Subscribe until Unsubscribe closes it. Nothing about a
// subscriber is persisted; membership in the live set is its only state.
type Subscriber struct {
	C chan domain.Event
}

// Broadcaster owns the set of live subscriber channels. All mutation of
// the set goes through Subscribe and Unsubscribe.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
	buffer      int
	log         *zap.Logger
}

// New creates a broadcaster whose subscriber channels buffer up to buffer
// events before deliveries to that subscriber are dropped.
func New(buffer int, log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[*Subscriber]struct{}),
		buffer:      buffer,
		log:         log,
	}
}

// Subscribe registers a new live channel. O(1), no backlog replay.
func (b *Broadcaster) Subscribe() *Subscriber {
	sub := &Subscriber{C: make(chan domain.Event, b.buffer)}

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	n := len(b.subscribers)
	b.mu.Unlock()

	b.log.Info("Subscriber joined", zap.Int("live", n))
	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Idempotent:
// safe to call twice, safe if the subscriber is already gone.
func (b *Broadcaster) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	_, ok := b.subscribers[sub]
	if ok {
		delete(b.subscribers, sub)
		close(sub.C)
	}
	n := len(b.subscribers)
	b.mu.Unlock()

	if ok {
		b.log.Info("Subscriber left", zap.Int("live", n))
	}
}

// Publish delivers ev to every currently registered subscriber. A
// subscriber whose channel is full is silently skipped; not queued, not
// retried. Failure on one channel never affects the others.
func (b *Broadcaster) Publish(ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		select {
		case sub.C <- ev:
		default:
			b.log.Debug("Subscriber channel full, dropping event",
				zap.String("event_id", ev.ID))
		}
	}
}

// Len returns the number of live subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
