package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/stockledger/lot-service/internal/ledger"
	"github.com/stockledger/lot-service/internal/models"
)

// TradeRecorder is the processing surface the consumer drives.
type TradeRecorder interface {
	RecordTrade(ctx context.Context, req ledger.TradeRequest) (*ledger.TradeResult, error)
}

// Consumer ingests trade request events from Kafka and records them through
// the trade processor. This is the bulk-ingest path: rejected events are
// logged and skipped so one bad trade cannot stall the stream.
type Consumer struct {
	reader   *kafka.Reader
	recorder TradeRecorder
	log      *logrus.Logger
}

// NewConsumer creates a new Kafka consumer for trade request events
func NewConsumer(brokers []string, topic, groupID string, recorder TradeRecorder, log *logrus.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:   reader,
		recorder: recorder,
		log:      log,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	c.log.WithField("topic", c.reader.Config().Topic).Info("starting kafka consumer")

	for {
		select {
		case <-ctx.Done():
			c.log.Info("kafka consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				c.log.WithError(err).Error("error reading message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.log.WithError(err).Error("error processing message")
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.TradeRequestEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal trade request event: %w", err)
	}

	if event.EventType != models.EventTradeRequested {
		c.log.WithField("event_type", event.EventType).Debug("ignoring event")
		return nil
	}

	req, err := c.convertEventToRequest(event)
	if err != nil {
		return fmt.Errorf("failed to convert event to trade request: %w", err)
	}

	result, err := c.recorder.RecordTrade(ctx, req)

	var insufficient *ledger.InsufficientStockError
	var invalid *ledger.ValidationError
	switch {
	case err == nil:
		c.log.WithFields(logrus.Fields{
			"stock_name": result.Trade.StockName,
			"trade_type": result.Trade.TradeType,
			"quantity":   result.Trade.Quantity.String(),
			"trade_id":   result.Trade.ID,
		}).Info("recorded trade from event")
		return nil
	case errors.As(err, &insufficient):
		// Business outcome: the trade record exists, all available inventory
		// was consumed. Retrying would not help.
		c.log.WithFields(logrus.Fields{
			"stock_name": insufficient.StockName,
			"remaining":  insufficient.Remaining.String(),
		}).Warn("insufficient stock for trade event")
		return nil
	case errors.As(err, &invalid), errors.Is(err, ledger.ErrInvalidTradeType):
		c.log.WithError(err).WithField("source", event.Source).Warn("rejected malformed trade event")
		return nil
	default:
		return fmt.Errorf("failed to record trade: %w", err)
	}
}

// convertEventToRequest maps a TradeRequestEvent to a ledger.TradeRequest
func (c *Consumer) convertEventToRequest(event models.TradeRequestEvent) (ledger.TradeRequest, error) {
	data := event.Data

	quantity, err := decimal.NewFromString(data.Quantity)
	if err != nil {
		return ledger.TradeRequest{}, fmt.Errorf("invalid quantity %q: %w", data.Quantity, err)
	}

	price, err := decimal.NewFromString(data.Price)
	if err != nil {
		return ledger.TradeRequest{}, fmt.Errorf("invalid price %q: %w", data.Price, err)
	}

	return ledger.TradeRequest{
		StockName:    data.StockName,
		TradeType:    data.TradeType,
		Quantity:     quantity,
		Price:        price,
		BrokerName:   data.BrokerName,
		OrderingMode: data.OrderingMode,
	}, nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
