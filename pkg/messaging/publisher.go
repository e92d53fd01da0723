// Package messaging defines the event publishing contract.
package messaging

import (
	"context"
)

// Event is a message with its own subject and serialized payload.
type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
