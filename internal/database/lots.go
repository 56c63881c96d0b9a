package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/stockledger/lot-service/internal/models"
)

// CreateLot inserts a new lot record and assigns its id and creation time.
func (db *DB) CreateLot(ctx context.Context, l *models.Lot) error {
	query := `
		INSERT INTO lots (
			trade_id, stock_name, lot_quantity, realized_quantity, realized_trade_id, lot_status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id
	`
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := db.conn.QueryRowContext(ctx, query,
		l.TradeID, l.StockName, l.LotQuantity, l.RealizedQuantity, l.RealizedTradeID, l.LotStatus, createdAt,
	).Scan(&l.ID)

	if err != nil {
		return fmt.Errorf("failed to create lot: %w", err)
	}
	l.CreatedAt = createdAt
	return nil
}

// GetLotByID retrieves a lot by ID
func (db *DB) GetLotByID(ctx context.Context, id int) (*models.Lot, error) {
	query := `
		SELECT id, trade_id, stock_name, lot_quantity, realized_quantity, realized_trade_id, lot_status, created_at
		FROM lots
		WHERE id = $1
	`
	l, err := scanSingleLot(db.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lot not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lot: %w", err)
	}
	return l, nil
}

// LotFilter narrows a lot listing by field equality. Zero values mean no
// filtering on that field.
type LotFilter struct {
	StockName string
	LotStatus string
	TradeID   int
}

// GetLots retrieves lots matching the filter, oldest first.
func (db *DB) GetLots(ctx context.Context, f LotFilter) ([]*models.Lot, error) {
	query := `
		SELECT id, trade_id, stock_name, lot_quantity, realized_quantity, realized_trade_id, lot_status, created_at
		FROM lots
	`
	var conds []string
	var args []any
	if f.StockName != "" {
		args = append(args, f.StockName)
		conds = append(conds, fmt.Sprintf("stock_name = $%d", len(args)))
	}
	if f.LotStatus != "" {
		args = append(args, f.LotStatus)
		conds = append(conds, fmt.Sprintf("lot_status = $%d", len(args)))
	}
	if f.TradeID != 0 {
		args = append(args, f.TradeID)
		conds = append(conds, fmt.Sprintf("trade_id = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	return scanLots(db.conn.QueryContext(ctx, query, args...))
}

func scanSingleLot(row *sql.Row) (*models.Lot, error) {
	var l models.Lot
	var realizedTradeID sql.NullInt64

	err := row.Scan(
		&l.ID, &l.TradeID, &l.StockName, &l.LotQuantity, &l.RealizedQuantity,
		&realizedTradeID, &l.LotStatus, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if realizedTradeID.Valid {
		id := int(realizedTradeID.Int64)
		l.RealizedTradeID = &id
	}
	return &l, nil
}

func scanLots(rows *sql.Rows, err error) ([]*models.Lot, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query lots: %w", err)
	}
	defer rows.Close()

	var lots []*models.Lot
	for rows.Next() {
		var l models.Lot
		var realizedTradeID sql.NullInt64

		err := rows.Scan(
			&l.ID, &l.TradeID, &l.StockName, &l.LotQuantity, &l.RealizedQuantity,
			&realizedTradeID, &l.LotStatus, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lot: %w", err)
		}

		if realizedTradeID.Valid {
			id := int(realizedTradeID.Int64)
			l.RealizedTradeID = &id
		}
		lots = append(lots, &l)
	}

	return lots, rows.Err()
}
