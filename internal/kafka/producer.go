package kafka

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
)

// Producer publishes persisted-message events for downstream consumers
// (notification pipeline, analytics). Publishing happens after the store
// write; a publish failure is logged by the caller, never surfaced to the
// sender.
type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		Async:        false,
	}
	return &Producer{writer: w}
}

// PublishMessageSent keys events by chat id so one chat's events stay on
// one partition, preserving per-chat order for consumers.
func (p *Producer) PublishMessageSent(ctx context.Context, chatID string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(chatID),
		Value: b,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
