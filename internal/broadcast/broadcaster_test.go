package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/zeph-ai-dev/starpulse/internal/domain"
)

func TestBroadcaster_PublishReachesLiveSubscribersOnly(t *testing.T) {
	b := New(4, zap.NewNop())

	sub1 := b.Subscribe()
	sub2 := b.Subscribe()
	gone := b.Subscribe()
	b.Unsubscribe(gone)

	assert.Equal(t, 2, b.Len())

	ev := domain.Event{ID: "ev1", PubKey: "alice", Kind: domain.KindPost}
	b.Publish(ev)

	assert.Equal(t, ev, <-sub1.C)
	assert.Equal(t, ev, <-sub2.C)

	// Each live subscriber received exactly one message.
	assert.Empty(t, sub1.C)
	assert.Empty(t, sub2.C)

	// The departed subscriber's channel is closed and empty.
	_, open := <-gone.C
	assert.False(t, open)
}

func TestBroadcaster_UnsubscribeIdempotent(t *testing.T) {
	b := New(4, zap.NewNop())

	sub := b.Subscribe()
	b.Unsubscribe(sub)

	assert.NotPanics(t, func() {
		b.Unsubscribe(sub)
	})
	assert.Zero(t, b.Len())
}

func TestBroadcaster_FullChannelSkippedNotBlocked(t *testing.T) {
	b := New(1, zap.NewNop())

	slow := b.Subscribe()
	healthy := b.Subscribe()

	first := domain.Event{ID: "ev1"}
	second := domain.Event{ID: "ev2"}

	b.Publish(first)
	assert.Equal(t, first, <-healthy.C)

	// slow's buffer is still full; the second delivery is dropped for it
	// without affecting healthy.
	b.Publish(second)
	assert.Equal(t, second, <-healthy.C)

	assert.Equal(t, first, <-slow.C)
	assert.Empty(t, slow.C)
}

func TestBroadcaster_PublishOrderPreservedPerSubscriber(t *testing.T) {
	b := New(8, zap.NewNop())
	sub := b.Subscribe()

	for i, id := range []string{"a", "b", "c"} {
		b.Publish(domain.Event{ID: id, CreatedAt: int64(i)})
	}

	assert.Equal(t, "a", (<-sub.C).ID)
	assert.Equal(t, "b", (<-sub.C).ID)
	assert.Equal(t, "c", (<-sub.C).ID)
}
