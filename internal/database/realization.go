package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stockledger/lot-service/internal/ledger"
	"github.com/stockledger/lot-service/internal/models"
)

// BeginRealization starts the transaction scoping one sell's multi-lot
// consumption. All lot reads inside it take row locks, so a concurrent sell
// for the same stock blocks until this one commits or rolls back.
func (db *DB) BeginRealization(ctx context.Context) (ledger.RealizationTx, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &realizationTx{tx: tx}, nil
}

type realizationTx struct {
	tx *sql.Tx
}

// OpenLots fetches the stock's not-fully-realized lots locked for update,
// ordered by creation time (ascending for FIFO, descending for LIFO) with
// the lot id breaking ties.
func (r *realizationTx) OpenLots(ctx context.Context, stockName string, mode models.OrderingMode) ([]*models.Lot, error) {
	dir := "ASC"
	if mode == models.OrderingLIFO {
		dir = "DESC"
	}
	query := fmt.Sprintf(`
		SELECT id, trade_id, stock_name, lot_quantity, realized_quantity, realized_trade_id, lot_status, created_at
		FROM lots
		WHERE stock_name = $1 AND lot_status <> $2
		ORDER BY created_at %s, id %s
		FOR UPDATE
	`, dir, dir)

	return scanLots(r.tx.QueryContext(ctx, query, stockName, models.LotStatusFullyRealized))
}

// UpdateLotRealization persists a lot's realization fields as one atomic
// write: quantity, realizing trade reference and derived status together.
func (r *realizationTx) UpdateLotRealization(ctx context.Context, l *models.Lot) error {
	query := `
		UPDATE lots
		SET realized_quantity = $2, realized_trade_id = $3, lot_status = $4
		WHERE id = $1
	`
	result, err := r.tx.ExecContext(ctx, query, l.ID, l.RealizedQuantity, l.RealizedTradeID, l.LotStatus)
	if err != nil {
		return fmt.Errorf("failed to update lot realization: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("lot not found: %d", l.ID)
	}
	return nil
}

func (r *realizationTx) Commit() error {
	return r.tx.Commit()
}

func (r *realizationTx) Rollback() error {
	return r.tx.Rollback()
}
