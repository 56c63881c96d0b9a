package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot status constants
const (
	LotStatusOpen              = "OPEN"
	LotStatusPartiallyRealized = "PARTIALLY REALIZED"
	LotStatusFullyRealized     = "FULLY REALIZED"
)

// Lot is a realizable unit of inventory created by a CREDIT trade and
// consumed by later DEBIT trades. LotQuantity is immutable after creation;
// RealizedQuantity only ever grows.
type Lot struct {
	ID               int             `json:"id"`
	TradeID          int             `json:"trade_id"`
	StockName        string          `json:"stock_name"`
	LotQuantity      decimal.Decimal `json:"lot_quantity"`
	RealizedQuantity decimal.Decimal `json:"realized_quantity"`
	RealizedTradeID  *int            `json:"realized_trade_id,omitempty"`
	LotStatus        string          `json:"lot_status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Available returns the quantity still consumable from the lot.
func (l *Lot) Available() decimal.Decimal {
	return l.LotQuantity.Sub(l.RealizedQuantity)
}

// LotStatusFor derives the lot status purely from quantities. A stored status
// must never disagree with this derivation.
func LotStatusFor(lotQuantity, realizedQuantity decimal.Decimal) string {
	switch {
	case realizedQuantity.IsZero():
		return LotStatusOpen
	case realizedQuantity.GreaterThanOrEqual(lotQuantity):
		return LotStatusFullyRealized
	default:
		return LotStatusPartiallyRealized
	}
}
