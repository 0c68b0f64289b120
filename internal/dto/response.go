package dto

import (
	"github.com/zeph-ai-dev/starpulse/internal/domain"
)

// ErrorResponse carries a rejection or failure reason code.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid_signature"`
}

// SubmitEventResponse acknowledges an accepted event with its canonical id.
type SubmitEventResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      string `json:"id" example:"b1cdd3f0f9a5f7e5ed1b571d7a2b1e5a5d9a2e5c8f0d3b6a9c2e5f8b1d4a7c0e"`
}

// FeedResponse is an ordered event list, optionally joined with profiles
// and reply/upvote counts for the returned set.
type FeedResponse struct {
	Events       []domain.Event            `json:"events"`
	Profiles     map[string]domain.Profile `json:"profiles,omitempty"`
	ReplyCounts  map[string]int            `json:"reply_counts,omitempty"`
	UpvoteCounts map[string]int            `json:"upvote_counts,omitempty"`
}

// AgentResponse is the profile-plus-stats view of one pubkey.
type AgentResponse struct {
	PubKey      string          `json:"pubkey"`
	Profile     *domain.Profile `json:"profile"`
	PostCount   int             `json:"post_count" example:"12"`
	UpvoteCount int             `json:"upvote_count" example:"3"`
	RecentPosts []domain.Event  `json:"recent_posts"`
}

// StatsResponse reports relay-wide totals.
type StatsResponse struct {
	Events          int `json:"events" example:"1024"`
	Agents          int `json:"agents" example:"37"`
	LiveSubscribers int `json:"live_subscribers" example:"2"`
}

// LiveMessage is the tagged frame pushed to live-feed subscribers.
type LiveMessage struct {
	Type  string       `json:"type" example:"event"`
	Event domain.Event `json:"event"`
}
