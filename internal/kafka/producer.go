package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"bearcat-ticketing/internal/models"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		WriteTimeout: 10 * time.Second,
	})
	return &Producer{Writer: writer}
}

// PublishNotification streams a notification event to the topic, keyed by
// event id so all notifications for an event land on one partition.
func (p *Producer) PublishNotification(ctx context.Context, n models.Notification) error {
	msgBytes, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	return p.Writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(n.EventID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
