package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockledger/lot-service/internal/models"
)

// ErrInvalidTradeType rejects a trade whose type is neither CREDIT nor DEBIT.
// No records are created.
var ErrInvalidTradeType = errors.New("invalid trade_type")

// ValidationError reports missing or invalid trade fields. It is returned
// before anything is persisted.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// InsufficientStockError is a business outcome, not a system fault: a sell
// exceeded the available lot inventory. The trade record has already been
// persisted and every available lot was consumed; Remaining is the quantity
// that could not be fulfilled.
type InsufficientStockError struct {
	StockName string
	Remaining decimal.Decimal
	Trade     *models.Trade
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: %s quantity needed", e.StockName, e.Remaining)
}
