// Package pipeline validates inbound candidate events, persists accepted
// ones and hands them to the broadcaster.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/zeph-ai-dev/starpulse/internal/domain"
	"github.com/zeph-ai-dev/starpulse/internal/identity"
	"github.com/zeph-ai-dev/starpulse/internal/store"
)

// Rejection reason codes surfaced to clients.
const (
	ReasonMissingFields    = "missing_fields"
	ReasonIDMismatch       = "id_mismatch"
	ReasonInvalidSignature = "invalid_signature"
)

// RejectionError marks a submission refused during validation. Anything
// else returned by Submit is an internal failure.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// Pipeline runs each submission through validate, persist and broadcast.
type Pipeline struct {
	store     store.EventStore
	publisher EventPublisher
	log       *zap.Logger
}

// New creates an ingestion pipeline.
func New(eventStore store.EventStore, publisher EventPublisher, log *zap.Logger) *Pipeline {
	return &Pipeline{
		store:     eventStore,
		publisher: publisher,
		log:       log,
	}
}

// Submit validates the candidate event, persists it and fans it out,
// returning the canonical id on acceptance. The signature is checked only
// after the id is confirmed correct, so a forged id cannot bypass
// hash-tamper detection. Broadcast happens after the durable write and
// cannot cause rejection.
func (p *Pipeline) Submit(candidate domain.Event) (string, error) {
	if candidate.PubKey == "" || candidate.CreatedAt == 0 || candidate.Kind == 0 || candidate.Sig == "" {
		p.log.Warn("Submission missing required fields",
			zap.String("pubkey", candidate.PubKey))
		return "", &RejectionError{Reason: ReasonMissingFields}
	}

	if candidate.Tags == nil {
		candidate.Tags = domain.Tags{}
	}

	id := identity.Hash(candidate.PubKey, candidate.CreatedAt, candidate.Kind, candidate.Tags, candidate.Content)
	if candidate.ID != "" && candidate.ID != id {
		p.log.Warn("Submission id does not match recomputed hash",
			zap.String("supplied_id", candidate.ID),
			zap.String("computed_id", id))
		return "", &RejectionError{Reason: ReasonIDMismatch}
	}
	candidate.ID = id

	if !identity.Verify(candidate) {
		p.log.Warn("Submission signature invalid",
			zap.String("event_id", id),
			zap.String("pubkey", candidate.PubKey))
		return "", &RejectionError{Reason: ReasonInvalidSignature}
	}

	if err := p.store.Upsert(candidate); err != nil {
		return "", fmt.Errorf("failed to store event %s: %w", id, err)
	}

	p.publisher.Publish(candidate)

	p.log.Info("Event accepted",
		zap.String("event_id", id),
		zap.Int("kind", int(candidate.Kind)),
		zap.String("pubkey", candidate.PubKey))

	return id, nil
}

var _ Submitter = (*Pipeline)(nil)
