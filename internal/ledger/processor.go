package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/stockledger/lot-service/internal/models"
)

// TradeRequest carries the caller-supplied fields of a new trade.
// OrderingMode is only meaningful for DEBIT trades; empty means FIFO.
type TradeRequest struct {
	StockName    string          `json:"stock_name"`
	TradeType    string          `json:"trade_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	BrokerName   string          `json:"broker_name"`
	OrderingMode string          `json:"ordering_mode,omitempty"`
}

// TradeResult describes a processed trade.
type TradeResult struct {
	Trade        *models.Trade       `json:"trade"`
	OrderingMode models.OrderingMode `json:"ordering_mode,omitempty"`
	Message      string              `json:"message"`
}

// Processor validates and records trades. Buys open a new lot; sells are
// handed to the realization engine. Sells for the same stock are serialized
// so concurrent realizations cannot interleave lot scans.
type Processor struct {
	store  Store
	engine *Engine
	cache  SummaryInvalidator

	mu         sync.Mutex
	stockLocks map[string]*sync.Mutex
}

// NewProcessor creates a trade processor. cache may be nil.
func NewProcessor(store Store, cache SummaryInvalidator) *Processor {
	return &Processor{
		store:      store,
		engine:     NewEngine(store),
		cache:      cache,
		stockLocks: make(map[string]*sync.Mutex),
	}
}

// RecordTrade validates the request, persists the trade and applies its
// inventory effect. For a CREDIT it opens one new lot; for a DEBIT it
// realizes open lots in the requested ordering mode.
//
// On insufficient stock the trade record has already been persisted: the
// returned error is an *InsufficientStockError carrying the trade and the
// unfulfilled remainder, and the consumption of every available lot stands.
func (p *Processor) RecordTrade(ctx context.Context, req TradeRequest) (*TradeResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	tradeType, ok := models.ParseTradeType(req.TradeType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTradeType, req.TradeType)
	}

	mode, ok := models.ParseOrderingMode(req.OrderingMode)
	if !ok {
		return nil, &ValidationError{Invalid: []string{"ordering_mode"}}
	}

	trade := &models.Trade{
		StockName:  req.StockName,
		TradeType:  tradeType,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Amount:     req.Quantity.Mul(req.Price),
		BrokerName: req.BrokerName,
	}
	if err := p.store.CreateTrade(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to persist trade: %w", err)
	}

	switch tradeType {
	case models.TradeTypeCredit:
		lot := &models.Lot{
			TradeID:          trade.ID,
			StockName:        trade.StockName,
			LotQuantity:      trade.Quantity,
			RealizedQuantity: decimal.Zero,
			LotStatus:        models.LotStatusOpen,
		}
		if err := p.store.CreateLot(ctx, lot); err != nil {
			return nil, fmt.Errorf("failed to open lot: %w", err)
		}
		p.invalidate(ctx)
		return &TradeResult{Trade: trade, Message: "Trade processed"}, nil

	default: // DEBIT
		unlock := p.lockStock(trade.StockName)
		defer unlock()

		remaining, err := p.engine.Realize(ctx, trade.StockName, trade.Quantity, mode, trade.ID)
		if err != nil {
			return nil, err
		}
		p.invalidate(ctx)
		if remaining.IsPositive() {
			return nil, &InsufficientStockError{
				StockName: trade.StockName,
				Remaining: remaining,
				Trade:     trade,
			}
		}
		return &TradeResult{
			Trade:        trade,
			OrderingMode: mode,
			Message:      "Trade processed with " + mode.String(),
		}, nil
	}
}

func validate(req TradeRequest) error {
	verr := &ValidationError{}
	if req.StockName == "" {
		verr.Missing = append(verr.Missing, "stock_name")
	}
	if req.TradeType == "" {
		verr.Missing = append(verr.Missing, "trade_type")
	}
	if req.BrokerName == "" {
		verr.Missing = append(verr.Missing, "broker_name")
	}
	if req.Quantity.IsZero() {
		verr.Missing = append(verr.Missing, "quantity")
	} else if req.Quantity.IsNegative() {
		verr.Invalid = append(verr.Invalid, "quantity")
	}
	if req.Price.IsZero() {
		verr.Missing = append(verr.Missing, "price")
	} else if req.Price.IsNegative() {
		verr.Invalid = append(verr.Invalid, "price")
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return verr
	}
	return nil
}

// lockStock serializes sells per stock symbol. Combined with the row locks
// taken inside the realization transaction this prevents two sells from
// double-spending the same lot.
func (p *Processor) lockStock(name string) func() {
	p.mu.Lock()
	l, ok := p.stockLocks[name]
	if !ok {
		l = &sync.Mutex{}
		p.stockLocks[name] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (p *Processor) invalidate(ctx context.Context) {
	if p.cache != nil {
		p.cache.Invalidate(ctx)
	}
}
