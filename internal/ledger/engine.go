package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stockledger/lot-service/internal/models"
)

// Engine consumes open lots to satisfy a sell quantity. Lots are consumed in
// FIFO or LIFO order of creation; each sell's consumption runs in a single
// transaction so a persistence failure partway through rolls back every lot
// mutation of that sell. An insufficient-stock outcome is not a failure: the
// consumption of everything available commits and the unfulfilled remainder
// is returned to the caller.
type Engine struct {
	store Store
}

// NewEngine creates a realization engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Realize consumes up to quantity from the stock's open lots on behalf of
// the given DEBIT trade. It returns the quantity that could not be
// fulfilled: zero means the sell was fully backed by inventory.
func (e *Engine) Realize(ctx context.Context, stockName string, quantity decimal.Decimal, mode models.OrderingMode, tradeID int) (decimal.Decimal, error) {
	if stockName == "" {
		return quantity, fmt.Errorf("stock name must not be empty")
	}
	if !quantity.IsPositive() {
		return quantity, fmt.Errorf("quantity to realize must be positive, got %s", quantity)
	}

	tx, err := e.store.BeginRealization(ctx)
	if err != nil {
		return quantity, fmt.Errorf("failed to begin realization: %w", err)
	}

	lots, err := tx.OpenLots(ctx, stockName, mode)
	if err != nil {
		tx.Rollback()
		return quantity, fmt.Errorf("failed to fetch open lots: %w", err)
	}

	remaining := quantity
	for _, lot := range lots {
		available := lot.Available()
		if !available.IsPositive() {
			// Should not occur while the status invariant holds.
			continue
		}

		used := decimal.Min(available, remaining)
		lot.RealizedQuantity = lot.RealizedQuantity.Add(used)
		realizedBy := tradeID
		lot.RealizedTradeID = &realizedBy
		lot.LotStatus = models.LotStatusFor(lot.LotQuantity, lot.RealizedQuantity)

		if err := tx.UpdateLotRealization(ctx, lot); err != nil {
			tx.Rollback()
			return quantity, fmt.Errorf("failed to update lot %d: %w", lot.ID, err)
		}

		remaining = remaining.Sub(used)
		if !remaining.IsPositive() {
			break
		}
	}

	if err := tx.Commit(); err != nil {
		return quantity, fmt.Errorf("failed to commit realization: %w", err)
	}

	return remaining, nil
}
