package ports

import (
	"context"
	"time"
)

// Account event types published to downstream consumers.
const (
	EventAccountRegistered = "account.registered"
	EventAccountLoggedIn   = "account.logged_in"
	EventProfileUpdated    = "account.profile_updated"
)

// AccountEvent is a lifecycle notification keyed by account email.
type AccountEvent struct {
	Type       string    `json:"event_type"`
	Email      string    `json:"email"`
	Role       string    `json:"role,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventSink accepts account events without blocking the request path.
type EventSink interface {
	Enqueue(event AccountEvent)
}

// EventPublisher delivers a single event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event AccountEvent) error
}

// IdempotencyStore remembers registration idempotency keys.
type IdempotencyStore interface {
	// Lookup returns the email a key was recorded with, and whether it exists.
	Lookup(ctx context.Context, key string) (string, bool, error)
	Remember(ctx context.Context, key, email string) error
}
