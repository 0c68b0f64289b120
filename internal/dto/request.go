package dto

import (
	"github.com/zeph-ai-dev/starpulse/internal/domain"
)

// SubmitEventRequest is the wire form of a candidate event. Binary fields
// are lowercase hex, tags an array of arrays of strings.
type SubmitEventRequest struct {
	ID        string     `json:"id" example:"b1cdd3f0f9a5f7e5ed1b571d7a2b1e5a5d9a2e5c8f0d3b6a9c2e5f8b1d4a7c0e"`
	PubKey    string     `json:"pubkey" example:"3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"`
	CreatedAt int64      `json:"created_at" example:"1723475612"`
	Kind      int        `json:"kind" example:"1"`
	Content   string     `json:"content" example:"hello"`
	Tags      [][]string `json:"tags"`
	Sig       string     `json:"sig"`
}

// Event converts the wire form to the domain event.
func (r *SubmitEventRequest) Event() domain.Event {
	return domain.Event{
		ID:        r.ID,
		PubKey:    r.PubKey,
		CreatedAt: r.CreatedAt,
		Kind:      domain.Kind(r.Kind),
		Content:   r.Content,
		Tags:      domain.Tags(r.Tags),
		Sig:       r.Sig,
	}
}

// FeedRequest carries the filter parameters of a feed query.
type FeedRequest struct {
	Author string `form:"author" example:"3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"`
	Since  int64  `form:"since" example:"1723475612"`
	Until  int64  `form:"until" example:"1723562012"`
	Kind   *int   `form:"kind" example:"1"`
	Limit  int    `form:"limit" example:"50"`
	Enrich bool   `form:"enrich" example:"true"`
}
