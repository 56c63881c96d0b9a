package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/stockledger/lot-service/internal/models"
)

// CreateTrade inserts a new trade record and assigns its id and timestamp.
func (db *DB) CreateTrade(ctx context.Context, t *models.Trade) error {
	query := `
		INSERT INTO trades (
			stock_name, trade_type, quantity, price, amount, broker_name, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id
	`
	timestamp := t.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	err := db.conn.QueryRowContext(ctx, query,
		t.StockName, t.TradeType, t.Quantity, t.Price, t.Amount, t.BrokerName, timestamp,
	).Scan(&t.ID)

	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	t.Timestamp = timestamp
	return nil
}

// GetTradeByID retrieves a trade by ID
func (db *DB) GetTradeByID(ctx context.Context, id int) (*models.Trade, error) {
	query := `
		SELECT id, stock_name, trade_type, quantity, price, amount, broker_name, timestamp
		FROM trades
		WHERE id = $1
	`
	var t models.Trade
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.StockName, &t.TradeType, &t.Quantity, &t.Price, &t.Amount, &t.BrokerName, &t.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trade not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return &t, nil
}

// TradeFilter narrows a trade listing by field equality. Zero values mean no
// filtering on that field.
type TradeFilter struct {
	StockName  string
	TradeType  string
	BrokerName string
}

// GetTrades retrieves trades matching the filter, newest first.
func (db *DB) GetTrades(ctx context.Context, f TradeFilter) ([]*models.Trade, error) {
	query := `
		SELECT id, stock_name, trade_type, quantity, price, amount, broker_name, timestamp
		FROM trades
	`
	var conds []string
	var args []any
	if f.StockName != "" {
		args = append(args, f.StockName)
		conds = append(conds, fmt.Sprintf("stock_name = $%d", len(args)))
	}
	if f.TradeType != "" {
		args = append(args, f.TradeType)
		conds = append(conds, fmt.Sprintf("trade_type = $%d", len(args)))
	}
	if f.BrokerName != "" {
		args = append(args, f.BrokerName)
		conds = append(conds, fmt.Sprintf("broker_name = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"

	return db.scanTrades(db.conn.QueryContext(ctx, query, args...))
}

func (db *DB) scanTrades(rows *sql.Rows, err error) ([]*models.Trade, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.Trade
	for rows.Next() {
		var t models.Trade
		err := rows.Scan(
			&t.ID, &t.StockName, &t.TradeType, &t.Quantity, &t.Price, &t.Amount, &t.BrokerName, &t.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, &t)
	}

	return trades, rows.Err()
}
