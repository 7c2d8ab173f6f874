package services

import (
	"context"
	"encoding/json"
	"log"
)

// Mailer delivers a rendered HTML message to a single recipient.
type Mailer interface {
	Send(to, subject, html string) error
}

// ImageStore uploads image bytes to the external host and deletes them by
// the host-assigned key.
type ImageStore interface {
	Upload(ctx context.Context, data []byte) (url string, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// EventPublisher pushes activity events onto the broker.
type EventPublisher interface {
	Publish(event string, body []byte) error
}

// publishEvent is best-effort: a broker failure is logged, never surfaced to
// the caller. A nil publisher disables events entirely.
func publishEvent(events EventPublisher, event string, payload map[string]interface{}) {
	if events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := events.Publish(event, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
