// Package snapshot implements the event store as a single JSON snapshot
// file rewritten atomically on every accepted event. Full re-serialization
// per write bounds practical volume but guarantees no accepted event is
// lost between calls; correctness over throughput is the explicit
// tradeoff.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"github.com/zeph-ai-dev/starpulse/internal/domain"
	"github.com/zeph-ai-dev/starpulse/internal/store"
)

// Store implements store.EventStore. Events are held in storage order; the
// byID index maps an event id to its slot so an upsert with a known id
// replaces in place.
type Store struct {
	mu     sync.Mutex
	path   string
	events []domain.Event
	byID   map[string]int
	log    *zap.Logger
}

// Open loads the snapshot at path, or starts empty when the file does not
// exist yet.
func Open(path string, log *zap.Logger) (*Store, error) {
	s := &Store{
		path: path,
		byID: make(map[string]int),
		log:  log,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Info("No snapshot file found, starting empty", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &s.events); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	for i, ev := range s.events {
		s.byID[ev.ID] = i
	}

	log.Info("Snapshot loaded",
		zap.String("path", path),
		zap.Int("events", len(s.events)))

	return s, nil
}

// Upsert inserts or fully replaces the row at ev.ID and flushes the whole
// data set to disk before returning.
func (s *Store) Upsert(ev domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byID[ev.ID]; ok {
		s.events[i] = ev
	} else {
		s.byID[ev.ID] = len(s.events)
		s.events = append(s.events, ev)
	}

	return s.persist()
}

// persist writes the full event set atomically. Caller holds the lock.
func (s *Store) persist() error {
	data, err := json.Marshal(s.events)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Query returns matching events ordered by created_at descending, ties
// stable in storage order.
func (s *Store) Query(f store.Filter) []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := f.Limit
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	if limit > store.MaxLimit {
		limit = store.MaxLimit
	}

	var matched []domain.Event
	for _, ev := range s.events {
		if f.Author != "" && ev.PubKey != f.Author {
			continue
		}
		if f.Since != 0 && ev.CreatedAt < f.Since {
			continue
		}
		if f.Until != 0 && ev.CreatedAt > f.Until {
			continue
		}
		if f.Kind != nil && ev.Kind != *f.Kind {
			continue
		}
		matched = append(matched, ev)
	}

	// Stable sort keeps storage order among equal timestamps.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt > matched[j].CreatedAt
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// GetByID returns the stored event with the given id.
func (s *Store) GetByID(id string) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return domain.Event{}, false
	}
	return s.events[i], true
}

// CountByAuthor counts posts (kinds 1 and 2) and upvotes cast (kind 3)
// authored by pubkey.
func (s *Store) CountByAuthor(pubkey string) (posts, upvotes int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.events {
		if ev.PubKey != pubkey {
			continue
		}
		switch ev.Kind {
		case domain.KindPost, domain.KindReply:
			posts++
		case domain.KindUpvote:
			upvotes++
		}
	}
	return posts, upvotes
}

// Totals returns the event count and distinct author count.
func (s *Store) Totals() (events, authors int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.events))
	for _, ev := range s.events {
		seen[ev.PubKey] = struct{}{}
	}
	return len(s.events), len(seen)
}

// LatestProfiles returns the most recent kind-5 event per requested
// pubkey. Pubkeys without a profile event are absent from the result.
func (s *Store) LatestProfiles(pubkeys []string) map[string]domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[string]struct{}, len(pubkeys))
	for _, pk := range pubkeys {
		want[pk] = struct{}{}
	}

	latest := make(map[string]domain.Event)
	for _, ev := range s.events {
		if ev.Kind != domain.KindProfile {
			continue
		}
		if _, ok := want[ev.PubKey]; !ok {
			continue
		}
		if cur, ok := latest[ev.PubKey]; !ok || ev.CreatedAt >= cur.CreatedAt {
			latest[ev.PubKey] = ev
		}
	}
	return latest
}

// ReplyCounts counts kind-2 events whose reply_to tag references each id.
func (s *Store) ReplyCounts(ids []string) map[string]int {
	return s.countReferences(ids, domain.KindReply, domain.TagReplyTo)
}

// UpvoteCounts counts kind-3 events whose target tag references each id.
func (s *Store) UpvoteCounts(ids []string) map[string]int {
	return s.countReferences(ids, domain.KindUpvote, domain.TagTarget)
}

// countReferences aggregates at query time over the full event set. No
// stored counters, no caching; results always reflect current state.
func (s *Store) countReferences(ids []string, kind domain.Kind, tag string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	counts := make(map[string]int, len(ids))
	for _, ev := range s.events {
		if ev.Kind != kind {
			continue
		}
		target := ev.Tags.First(tag)
		if _, ok := want[target]; ok {
			counts[target]++
		}
	}
	return counts
}

var _ store.EventStore = (*Store)(nil)
