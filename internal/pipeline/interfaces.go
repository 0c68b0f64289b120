package pipeline

import (
	"github.com/zeph-ai-dev/starpulse/internal/domain"
)

// EventPublisher hands accepted events to the live fan-out. Fire and
// forget: it cannot fail a submission.
type EventPublisher interface {
	Publish(ev domain.Event)
}

// Submitter is the ingestion entry point consumed by the HTTP handler.
type Submitter interface {
	Submit(candidate domain.Event) (string, error)
}
