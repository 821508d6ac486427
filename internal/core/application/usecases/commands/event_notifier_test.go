package commands_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAudience_TopicsAreUnique(t *testing.T) {
	user := kernel.NewUUID()
	vendor := kernel.NewUUID()

	topics := commands.Audience{
		Users:   []*kernel.UUID{&user, nil, &user},
		Vendors: []kernel.UUID{vendor, vendor},
	}.Topics()

	assert.Equal(t, []string{"user:" + user.String(), "vendor:" + vendor.String()}, topics)
}

func TestEventNotifier_PublishFailureIsLogged(t *testing.T) {
	ctx := t.Context()
	user := kernel.NewUUID()
	aggregate := kernel.NewUUID()

	publisher := &MockEventPublisher{}
	publisher.On("Publish", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Topic == commands.UserTopic(user) &&
			n.Name == "delivery:accepted" &&
			n.AggregateID == aggregate.String() &&
			n.ID != ""
	})).Return(errors.New("broker down")).Once()

	var logs bytes.Buffer
	notifier := commands.NewEventNotifier(publisher, slog.New(slog.NewTextHandler(&logs, nil)))

	notifier.Notify(ctx, []kernel.DomainEvent{{Name: "delivery:accepted", AggregateID: aggregate, OccurredAt: now}},
		commands.Audience{Users: []*kernel.UUID{&user}})

	publisher.AssertExpectations(t)
	require.Contains(t, logs.String(), "failed to publish event")
	assert.Contains(t, logs.String(), "broker down")
}
