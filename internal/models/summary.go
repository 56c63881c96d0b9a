package models

import "github.com/shopspring/decimal"

// StockSummary is a per-stock reconciliation row: net traded quantity from
// the trade ledger against quantity still available in open lots.
type StockSummary struct {
	StockName              string          `json:"stock_name"`
	TotalQuantityCredit    decimal.Decimal `json:"total_quantity_credit"`
	TotalQuantityDebit     decimal.Decimal `json:"total_quantity_debit"`
	TotalAmountCredit      decimal.Decimal `json:"total_amount_credit"`
	TotalAmountDebit       decimal.Decimal `json:"total_amount_debit"`
	TradeCount             int             `json:"trade_count"`
	NetQuantity            decimal.Decimal `json:"net_quantity"`
	NetAmount              decimal.Decimal `json:"net_amount"`
	TotalAvailableQuantity decimal.Decimal `json:"total_available_quantity"`
	AvailableLotsCount     int             `json:"available_lots_count"`
	Warning                string          `json:"warning"`
}
