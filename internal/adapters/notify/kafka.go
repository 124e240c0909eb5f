package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"payments-api/internal/config"
	"payments-api/internal/core/domain"

	"github.com/IBM/sarama"
)

// notificationEvent is the JSON value published to Kafka
type notificationEvent struct {
	Key       string    `json:"key"`
	Kind      string    `json:"kind"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// KafkaNotifier publishes notifications to a Kafka topic for downstream
// consumers. Messages are keyed by the event key.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer creates a sync producer that waits for all replicas
func NewKafkaProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 5

	return sarama.NewSyncProducer(cfg.Brokers, sc)
}

// NewKafkaNotifier wraps producer
func NewKafkaNotifier(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// Notify publishes msg
func (n *KafkaNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(notificationEvent{
		Key:       msg.Key,
		Kind:      string(msg.Kind),
		Recipient: msg.Address,
		Subject:   msg.Subject,
		Body:      msg.Body,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	_, _, err = n.producer.SendMessage(&sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(msg.Key),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", msg.Kind, n.topic, err)
	}
	return nil
}

// Close closes the underlying producer
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}
