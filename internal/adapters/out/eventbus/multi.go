// Package eventbus carries fulfillment notifications out of the process: Redis
// pub/sub for real-time fan-out across instances and Kafka for downstream consumers.
package eventbus

import (
	"context"
	"errors"

	"fulfillment/internal/core/ports"
)

// Multi publishes to every publisher and joins their errors.
type Multi []ports.EventPublisher

func (m Multi) Publish(ctx context.Context, n ports.Notification) error {
	var errList []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, n); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
