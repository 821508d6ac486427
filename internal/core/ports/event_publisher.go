package ports

import (
	"context"
	"time"
)

// Notification is a domain event addressed to one audience topic, such as
// "user:<id>" or "vendor:<id>".
type Notification struct {
	ID          string         `json:"id"`
	Topic       string         `json:"topic"`
	Name        string         `json:"event"`
	AggregateID string         `json:"aggregateId"`
	Payload     map[string]any `json:"data,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

// EventPublisher pushes notifications to real-time subscribers and downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, n Notification) error
}
