package kernel

import "time"

// DomainEvent describes something that happened to an aggregate. Events are
// collected during a unit of work and published after it commits.
type DomainEvent struct {
	Name        string
	AggregateID UUID
	OccurredAt  time.Time
	Payload     map[string]any
}

// EventRecorder is embedded by aggregates that emit domain events.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event.
func (r *EventRecorder) Record(name string, aggregateID UUID, at time.Time, payload map[string]any) {
	r.events = append(r.events, DomainEvent{
		Name:        name,
		AggregateID: aggregateID,
		OccurredAt:  at,
		Payload:     payload,
	})
}

// PullEvents returns the recorded events and clears the buffer.
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}
