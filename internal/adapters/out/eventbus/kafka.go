package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/IBM/sarama"
)

// KafkaPublisher writes each notification to one topic, keyed by aggregate id
// so that the events of a delivery stay ordered within a partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaConfig is the producer configuration used by NewKafkaPublisher.
func NewKafkaConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Net.DialTimeout = 10 * time.Second
	cfg.Net.ReadTimeout = 10 * time.Second
	cfg.Net.WriteTimeout = 10 * time.Second
	return cfg
}

// DialKafkaPublisher connects a sync producer to the brokers.
func DialKafkaPublisher(brokers []string, topic, clientID string) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaConfig(clientID))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisher(producer, topic), nil
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(_ context.Context, n ports.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(n.AggregateID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte(n.Name)},
			{Key: []byte("audience"), Value: []byte(n.Topic)},
		},
		Timestamp: n.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("kafka publish %s: %w", n.Name, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
