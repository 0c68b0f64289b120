// Package query serves read-only filtered and aggregated views over the
// event store.
package query

import (
	"go.uber.org/zap"

	"github.com/zeph-ai-dev/starpulse/internal/domain"
	"github.com/zeph-ai-dev/starpulse/internal/dto"
	"github.com/zeph-ai-dev/starpulse/internal/store"
)

// RecentPostsLimit bounds the recent-posts list in the agent view.
const RecentPostsLimit = 20

// Service assembles feed, event, agent and totals views. All derived data
// (profiles, counts) is computed per query against current store state.
type Service struct {
	store       store.EventStore
	subscribers SubscriberCounter
	log         *zap.Logger
}

// NewService creates a query service.
func NewService(eventStore store.EventStore, subscribers SubscriberCounter, log *zap.Logger) *Service {
	return &Service{
		store:       eventStore,
		subscribers: subscribers,
		log:         log,
	}
}

// Feed returns events matching the request filter, newest first. With
// Enrich set, the response joins the latest profile per returned author
// and reply/upvote counts per returned event id.
func (s *Service) Feed(req dto.FeedRequest) dto.FeedResponse {
	f := store.Filter{
		Author: req.Author,
		Since:  req.Since,
		Until:  req.Until,
		Limit:  req.Limit,
	}
	if req.Kind != nil {
		kind := domain.Kind(*req.Kind)
		f.Kind = &kind
	}

	events := s.store.Query(f)
	resp := dto.FeedResponse{Events: events}
	if !req.Enrich || len(events) == 0 {
		return resp
	}

	authors := make([]string, 0, len(events))
	ids := make([]string, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
		if _, ok := seen[ev.PubKey]; !ok {
			seen[ev.PubKey] = struct{}{}
			authors = append(authors, ev.PubKey)
		}
	}

	resp.Profiles = make(map[string]domain.Profile)
	for pubkey, ev := range s.store.LatestProfiles(authors) {
		resp.Profiles[pubkey] = domain.ParseProfile(ev.Content)
	}
	resp.ReplyCounts = s.store.ReplyCounts(ids)
	resp.UpvoteCounts = s.store.UpvoteCounts(ids)

	return resp
}

// Event returns the stored event with the given id.
func (s *Service) Event(id string) (domain.Event, bool) {
	return s.store.GetByID(id)
}

// Agent returns profile, per-author stats and recent posts for pubkey.
// The second return is false when the store holds no events for it.
func (s *Service) Agent(pubkey string) (dto.AgentResponse, bool) {
	if len(s.store.Query(store.Filter{Author: pubkey, Limit: 1})) == 0 {
		return dto.AgentResponse{}, false
	}

	resp := dto.AgentResponse{PubKey: pubkey}

	if ev, ok := s.store.LatestProfiles([]string{pubkey})[pubkey]; ok {
		profile := domain.ParseProfile(ev.Content)
		resp.Profile = &profile
	}

	resp.PostCount, resp.UpvoteCount = s.store.CountByAuthor(pubkey)

	kind := domain.KindPost
	resp.RecentPosts = s.store.Query(store.Filter{
		Author: pubkey,
		Kind:   &kind,
		Limit:  RecentPostsLimit,
	})

	return resp, true
}

// Totals reports the relay-wide event count, distinct author count and
// live subscriber count.
func (s *Service) Totals() dto.StatsResponse {
	events, authors := s.store.Totals()
	return dto.StatsResponse{
		Events:          events,
		Agents:          authors,
		LiveSubscribers: s.subscribers.Len(),
	}
}

var _ Querier = (*Service)(nil)
