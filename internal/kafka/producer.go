package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/stockledger/lot-service/internal/models"
)

// Producer publishes trade result events to Kafka.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishTradeProcessed publishes an event for a fully processed trade.
func (p *Producer) PublishTradeProcessed(ctx context.Context, trade *models.Trade, mode models.OrderingMode) error {
	event := models.TradeResultEvent{
		EventType:    models.EventTradeProcessed,
		StockName:    trade.StockName,
		Trade:        trade,
		OrderingMode: mode.String(),
		Timestamp:    time.Now(),
	}
	return p.publish(ctx, trade.StockName, event)
}

// PublishTradeRejected publishes an event for a sell that exceeded the
// available inventory. The trade record exists; remaining is the unfulfilled
// quantity.
func (p *Producer) PublishTradeRejected(ctx context.Context, trade *models.Trade, remaining decimal.Decimal) error {
	event := models.TradeResultEvent{
		EventType:         models.EventTradeRejected,
		StockName:         trade.StockName,
		Trade:             trade,
		RemainingQuantity: remaining.String(),
		Reason:            "insufficient stock",
		Timestamp:         time.Now(),
	}
	return p.publish(ctx, trade.StockName, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.TradeResultEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
