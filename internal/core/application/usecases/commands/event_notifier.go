package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/lucsky/cuid"
)

// Audience lists who hears about a change: users by id and vendors by store.
type Audience struct {
	Users   []*kernel.UUID
	Vendors []kernel.UUID
}

// Topics renders the audience as publisher topics.
func (a Audience) Topics() []string {
	topics := make([]string, 0, len(a.Users)+len(a.Vendors))
	seen := make(map[string]struct{}, cap(topics))
	add := func(t string) {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			topics = append(topics, t)
		}
	}
	for _, u := range a.Users {
		if u != nil {
			add(UserTopic(*u))
		}
	}
	for _, v := range a.Vendors {
		add(VendorTopic(v))
	}
	return topics
}

func UserTopic(id kernel.UUID) string {
	return "user:" + id.String()
}

func VendorTopic(id kernel.UUID) string {
	return "vendor:" + id.String()
}

// EventNotifier publishes domain events after a unit of work commits.
// Publishing is best effort: failures are logged and never fail the command.
type EventNotifier struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewEventNotifier(publisher ports.EventPublisher, logger *slog.Logger) EventNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return EventNotifier{publisher: publisher, logger: logger.With("component", "event-notifier")}
}

func (n EventNotifier) Notify(ctx context.Context, events []kernel.DomainEvent, audience Audience) {
	if n.publisher == nil || len(events) == 0 {
		return
	}
	topics := audience.Topics()
	for _, e := range events {
		for _, topic := range topics {
			msg := ports.Notification{
				ID:          cuid.New(),
				Topic:       topic,
				Name:        e.Name,
				AggregateID: e.AggregateID.String(),
				Payload:     e.Payload,
				OccurredAt:  e.OccurredAt,
			}
			if err := n.publisher.Publish(ctx, msg); err != nil {
				n.logger.WarnContext(ctx, "failed to publish event",
					"event", e.Name, "topic", topic, "error", err)
			}
		}
	}
}
