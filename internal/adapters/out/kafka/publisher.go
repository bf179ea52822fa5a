// Package kafka publishes order lifecycle events to Kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"strings"

	"orderflow/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// StatusChangedPublisher implements ports.EventPublisher on top of a
// kafka-go writer. Events are keyed by order ID so all events of one
// order land on the same partition in order.
type StatusChangedPublisher struct {
	writer *kafka.Writer
}

// NewStatusChangedPublisher creates a publisher for the given brokers.
// brokersCSV is a comma separated host:port list.
func NewStatusChangedPublisher(brokersCSV string) *StatusChangedPublisher {
	brokers := make([]string, 0)
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}

	return &StatusChangedPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish serializes the event as JSON and writes it to the given topic.
func (p *StatusChangedPublisher) Publish(ctx context.Context, topic string, event order.StatusChangedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
	})
}

// Close flushes pending messages and releases the underlying writer.
func (p *StatusChangedPublisher) Close() error {
	return p.writer.Close()
}
