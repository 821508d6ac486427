package eventbus_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/eventbus"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
}

func (suite *RedisIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)
	suite.client = redis.NewClient(&redis.Options{Addr: endpoint})
	suite.Require().NoError(suite.client.Ping(ctx).Err())
}

func (suite *RedisIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		_ = suite.client.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RedisIntegrationTestSuite) TestPublish_ForwardedToSink() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := notification()
	received := make(chan ports.Notification, 1)
	sink := new(MockEventPublisher)
	sink.On("Publish", mock.Anything, mock.AnythingOfType("ports.Notification")).
		Run(func(args mock.Arguments) { received <- args.Get(1).(ports.Notification) }).
		Return(nil)

	subscriber := eventbus.NewRedisSubscriber(suite.client, "test.notifications", sink, nil)
	done := make(chan error, 1)
	go func() { done <- subscriber.Run(ctx) }()

	publisher := eventbus.NewRedisPublisher(suite.client, "test.notifications")
	suite.Require().Eventually(func() bool {
		subs, err := suite.client.PubSubNumSub(ctx, "test.notifications").Result()
		return err == nil && subs["test.notifications"] == 1
	}, 5*time.Second, 20*time.Millisecond)

	suite.Require().NoError(publisher.Publish(ctx, n))

	select {
	case got := <-received:
		suite.Equal(n.Name, got.Name)
		suite.Equal(n.Topic, got.Topic)
		suite.Equal(n.AggregateID, got.AggregateID)
		suite.True(n.OccurredAt.Equal(got.OccurredAt))
	case <-time.After(5 * time.Second):
		suite.Fail("notification was not forwarded")
	}

	cancel()
	suite.Require().NoError(<-done)
}

func (suite *RedisIntegrationTestSuite) TestMalformedPayload_Skipped() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.Notification, 1)
	sink := new(MockEventPublisher)
	sink.On("Publish", mock.Anything, mock.AnythingOfType("ports.Notification")).
		Run(func(args mock.Arguments) { received <- args.Get(1).(ports.Notification) }).
		Return(nil)

	subscriber := eventbus.NewRedisSubscriber(suite.client, "test.malformed", sink, nil)
	go func() { _ = subscriber.Run(ctx) }()
	suite.Require().Eventually(func() bool {
		subs, err := suite.client.PubSubNumSub(ctx, "test.malformed").Result()
		return err == nil && subs["test.malformed"] == 1
	}, 5*time.Second, 20*time.Millisecond)

	suite.Require().NoError(suite.client.Publish(ctx, "test.malformed", "{not json").Err())
	suite.Require().NoError(eventbus.NewRedisPublisher(suite.client, "test.malformed").Publish(ctx, notification()))

	select {
	case got := <-received:
		suite.Equal("delivery.assigned", got.Name)
	case <-time.After(5 * time.Second):
		suite.Fail("valid notification after a malformed one was not forwarded")
	}
	sink.AssertNumberOfCalls(suite.T(), "Publish", 1)
}

func TestRedisIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisIntegrationTestSuite))
}
