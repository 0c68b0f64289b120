package query

import (
	"github.com/zeph-ai-dev/starpulse/internal/domain"
	"github.com/zeph-ai-dev/starpulse/internal/dto"
)

// SubscriberCounter reports the number of live subscribers for the totals
// view.
type SubscriberCounter interface {
	Len() int
}

// Querier defines the read-only views consumed by the HTTP handler.
type Querier interface {
	Feed(req dto.FeedRequest) dto.FeedResponse
	Event(id string) (domain.Event, bool)
	Agent(pubkey string) (dto.AgentResponse, bool)
	Totals() dto.StatsResponse
}
