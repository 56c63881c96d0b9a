package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Trade type constants
const (
	TradeTypeCredit = "CREDIT"
	TradeTypeDebit  = "DEBIT"
)

// OrderingMode selects which open lots a sell consumes first.
type OrderingMode string

const (
	OrderingFIFO OrderingMode = "FIFO"
	OrderingLIFO OrderingMode = "LIFO"
)

func (m OrderingMode) String() string { return string(m) }

// ParseOrderingMode normalizes an ordering mode. The empty string defaults to
// FIFO; anything other than fifo/lifo is rejected.
func ParseOrderingMode(s string) (OrderingMode, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "FIFO":
		return OrderingFIFO, true
	case "LIFO":
		return OrderingLIFO, true
	default:
		return "", false
	}
}

// ParseTradeType validates a trade type string.
func ParseTradeType(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case TradeTypeCredit:
		return TradeTypeCredit, true
	case TradeTypeDebit:
		return TradeTypeDebit, true
	default:
		return "", false
	}
}

// Trade is an immutable record of a buy (CREDIT) or sell (DEBIT) event.
// Amount is quantity * price, stored for query efficiency.
type Trade struct {
	ID         int             `json:"id"`
	StockName  string          `json:"stock_name"`
	TradeType  string          `json:"trade_type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Amount     decimal.Decimal `json:"amount"`
	BrokerName string          `json:"broker_name"`
	Timestamp  time.Time       `json:"timestamp"`
}
