package kafka

import (
	"context"
	"encoding/json"

	"ticket-marketplace/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderEventProducer publishes order lifecycle events, keyed by order id so
// events for the same order stay ordered within a partition.
type OrderEventProducer struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewOrderEventProducer(brokers []string, topic string, log *zap.Logger) *OrderEventProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &OrderEventProducer{writer: w, log: log}
}

func (p *OrderEventProducer) PublishOrderPaid(ctx context.Context, event models.OrderPaidEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	p.log.Info("order paid event published",
		zap.String("order_id", event.OrderID),
		zap.String("transaction_id", event.TransactionID),
	)
	return nil
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}
