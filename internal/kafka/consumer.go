package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"bearcat-ticketing/internal/logger"
	"bearcat-ticketing/internal/models"
)

type Consumer struct {
	reader *kafka.Reader
	log    *logger.Logger
}

func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, log: log}
}

// Start consumes notification messages until ctx is cancelled. Malformed
// messages are logged and skipped; handler errors do not stop the loop.
func (c *Consumer) Start(ctx context.Context, handler func(context.Context, models.Notification) error) {
	c.log.LogKafka("CONSUME", c.reader.Config().Topic, "consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.log.LogKafka("CONSUME", c.reader.Config().Topic, "consumer stopped")
				return
			}
			c.log.Error("KAFKA", "error reading message: "+err.Error())
			continue
		}

		var n models.Notification
		if err := json.Unmarshal(msg.Value, &n); err != nil {
			c.log.Warn("KAFKA", "failed to unmarshal notification: "+err.Error())
			continue
		}

		if err := handler(ctx, n); err != nil {
			c.log.Error("KAFKA", "notification handler failed: "+err.Error())
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
