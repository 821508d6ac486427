package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel carries every notification as JSON.
const DefaultRedisChannel = "fulfillment.notifications"

// RedisPublisher publishes notifications on one pub/sub channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, n ports.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err = p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", n.Name, err)
	}
	return nil
}

// RedisSubscriber forwards notifications received on the channel to a local
// sink, usually the websocket hub of this instance.
type RedisSubscriber struct {
	client  redis.UniversalClient
	channel string
	sink    ports.EventPublisher
	logger  *slog.Logger
}

func NewRedisSubscriber(
	client redis.UniversalClient,
	channel string,
	sink ports.EventPublisher,
	logger *slog.Logger,
) *RedisSubscriber {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSubscriber{
		client:  client,
		channel: channel,
		sink:    sink,
		logger:  logger.With("component", "redis-subscriber", "channel", channel),
	}
}

// Run blocks until ctx is cancelled. The subscription is confirmed before
// the first message is read so a failing Redis is reported to the caller.
func (s *RedisSubscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", s.channel, err)
	}
	s.logger.InfoContext(ctx, "subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.forward(ctx, msg.Payload)
		}
	}
}

func (s *RedisSubscriber) forward(ctx context.Context, payload string) {
	var n ports.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		s.logger.WarnContext(ctx, "discarding malformed notification", "error", err)
		return
	}
	if err := s.sink.Publish(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "failed to forward notification", "event", n.Name, "topic", n.Topic, "error", err)
	}
}
