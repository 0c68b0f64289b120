package store

import (
	"github.com/zeph-ai-dev/starpulse/internal/domain"
)

const (
	// DefaultLimit applies when a query does not request a limit.
	DefaultLimit = 50
	// MaxLimit is the hard ceiling a query limit is clamped to.
	MaxLimit = 200
)

// Filter selects events from the store. Zero values mean no constraint.
// Since and Until are inclusive created_at bounds.
type Filter struct {
	Author string
	Since  int64
	Until  int64
	Kind   *domain.Kind
	Limit  int
}

// EventStore is the durable, queryable record of accepted events. The
// store trusts its caller: validation happens upstream in the ingestion
// pipeline.
type EventStore interface {
	// Upsert inserts or fully replaces the row at the event id. Safe
	// under retransmission; the durable write is flushed before it
	// returns.
	Upsert(ev domain.Event) error

	// Query returns matching events ordered by created_at descending,
	// ties stable in storage order. The limit is clamped to MaxLimit and
	// defaults to DefaultLimit.
	Query(f Filter) []domain.Event

	// GetByID returns the event with the given id, if present.
	GetByID(id string) (domain.Event, bool)

	// CountByAuthor returns the number of posts (kinds 1 and 2) and
	// upvotes cast (kind 3) authored by the given pubkey.
	CountByAuthor(pubkey string) (posts, upvotes int)

	// Totals returns the event count and distinct author count.
	Totals() (events, authors int)

	// LatestProfiles returns the most recent kind-5 event per pubkey for
	// the pubkeys that have one.
	LatestProfiles(pubkeys []string) map[string]domain.Event

	// ReplyCounts returns, per event id, the number of kind-2 events
	// whose reply_to tag references it.
	ReplyCounts(ids []string) map[string]int

	// UpvoteCounts returns, per event id, the number of kind-3 events
	// whose target tag references it.
	UpvoteCounts(ids []string) map[string]int
}
