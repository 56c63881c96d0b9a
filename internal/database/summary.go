package database

import (
	"context"
	"fmt"

	"github.com/stockledger/lot-service/internal/models"
)

// StockAggregates computes the per-stock reconciliation aggregates: quantity
// and amount sums split by trade type joined with the quantity still
// available in open lots. Results are ordered by stock name. The mismatch
// warning is filled in by the summarizer, not here.
func (db *DB) StockAggregates(ctx context.Context) ([]*models.StockSummary, error) {
	query := `
		WITH trade_agg AS (
			SELECT
				stock_name,
				COALESCE(SUM(quantity) FILTER (WHERE trade_type = 'CREDIT'), 0) AS total_quantity_credit,
				COALESCE(SUM(quantity) FILTER (WHERE trade_type = 'DEBIT'), 0) AS total_quantity_debit,
				COALESCE(SUM(amount) FILTER (WHERE trade_type = 'CREDIT'), 0) AS total_amount_credit,
				COALESCE(SUM(amount) FILTER (WHERE trade_type = 'DEBIT'), 0) AS total_amount_debit,
				COUNT(*) AS trade_count
			FROM trades
			GROUP BY stock_name
		), lot_agg AS (
			SELECT
				stock_name,
				COALESCE(SUM(lot_quantity - realized_quantity), 0) AS total_available_quantity,
				COUNT(*) AS available_lots_count
			FROM lots
			WHERE lot_status IN ('OPEN', 'PARTIALLY REALIZED')
			GROUP BY stock_name
		)
		SELECT
			t.stock_name,
			t.total_quantity_credit,
			t.total_quantity_debit,
			t.total_amount_credit,
			t.total_amount_debit,
			t.trade_count,
			t.total_quantity_credit - t.total_quantity_debit AS net_quantity,
			t.total_amount_credit - t.total_amount_debit AS net_amount,
			COALESCE(l.total_available_quantity, 0) AS total_available_quantity,
			COALESCE(l.available_lots_count, 0) AS available_lots_count
		FROM trade_agg t
		LEFT JOIN lot_agg l ON l.stock_name = t.stock_name
		ORDER BY t.stock_name ASC
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock aggregates: %w", err)
	}
	defer rows.Close()

	var summaries []*models.StockSummary
	for rows.Next() {
		var s models.StockSummary
		err := rows.Scan(
			&s.StockName,
			&s.TotalQuantityCredit, &s.TotalQuantityDebit,
			&s.TotalAmountCredit, &s.TotalAmountDebit,
			&s.TradeCount,
			&s.NetQuantity, &s.NetAmount,
			&s.TotalAvailableQuantity, &s.AvailableLotsCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock aggregate: %w", err)
		}
		summaries = append(summaries, &s)
	}

	return summaries, rows.Err()
}
