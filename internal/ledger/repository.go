package ledger

import (
	"context"

	"github.com/stockledger/lot-service/internal/models"
)

// Store is the persistence surface the trade processor and realization
// engine need. *database.DB implements it.
type Store interface {
	CreateTrade(ctx context.Context, t *models.Trade) error
	CreateLot(ctx context.Context, l *models.Lot) error
	BeginRealization(ctx context.Context) (RealizationTx, error)
}

// RealizationTx scopes one sell's multi-lot consumption to a single
// transaction. OpenLots must return the stock's lots whose status is not
// FULLY REALIZED, locked for update, ordered by created_at (ascending for
// FIFO, descending for LIFO) with the lot id as tie-break so the consumption
// order is reproducible across runs.
type RealizationTx interface {
	OpenLots(ctx context.Context, stockName string, mode models.OrderingMode) ([]*models.Lot, error)
	UpdateLotRealization(ctx context.Context, l *models.Lot) error
	Commit() error
	Rollback() error
}

// SummaryStore provides the per-stock aggregates the summarizer reconciles.
type SummaryStore interface {
	StockAggregates(ctx context.Context) ([]*models.StockSummary, error)
}

// SummaryCache caches computed summaries. Implementations treat any backend
// failure as a miss.
type SummaryCache interface {
	GetSummaries(ctx context.Context) ([]*models.StockSummary, bool)
	SetSummaries(ctx context.Context, summaries []*models.StockSummary)
	Invalidate(ctx context.Context)
}

// SummaryInvalidator drops cached summaries after the underlying data
// changes.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context)
}
