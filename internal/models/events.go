package models

import "time"

// Event type constants
const (
	EventTradeRequested = "TRADE_REQUESTED"
	EventTradeProcessed = "TRADE_PROCESSED"
	EventTradeRejected  = "TRADE_REJECTED"
)

// TradeRequestEvent is consumed from Kafka: a trade to be recorded. Quantity
// and price travel as strings so producers cannot lose decimal precision.
type TradeRequestEvent struct {
	EventType string           `json:"event_type"`
	Source    string           `json:"source"`
	Data      TradeRequestData `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// TradeRequestData carries the trade fields of a TradeRequestEvent.
type TradeRequestData struct {
	StockName    string `json:"stock_name"`
	TradeType    string `json:"trade_type"`
	Quantity     string `json:"quantity"`
	Price        string `json:"price"`
	BrokerName   string `json:"broker_name"`
	OrderingMode string `json:"ordering_mode,omitempty"`
}

// TradeResultEvent is published after a trade has been processed or rejected.
type TradeResultEvent struct {
	EventType         string    `json:"event_type"`
	StockName         string    `json:"stock_name"`
	Trade             *Trade    `json:"trade,omitempty"`
	OrderingMode      string    `json:"ordering_mode,omitempty"`
	RemainingQuantity string    `json:"remaining_quantity,omitempty"`
	Reason            string    `json:"reason,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}
