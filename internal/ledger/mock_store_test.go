package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockledger/lot-service/internal/models"
)

// mockStore implements the Store interface in memory for testing. Lot
// updates stage inside a transaction and only reach the store on Commit,
// mirroring the database behavior.
type mockStore struct {
	mu     sync.Mutex
	trades []*models.Trade
	lots   []*models.Lot

	nextTradeID int
	nextLotID   int
	baseTime    time.Time

	failCreateTrade bool
	failCreateLot   bool
	failBegin       bool
	failUpdateAt    int // fail the Nth lot update across the store's lifetime, 0 = never
	updateCalls     int

	commits   int
	rollbacks int
}

func newMockStore() *mockStore {
	return &mockStore{
		nextTradeID: 1,
		nextLotID:   1,
		baseTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockStore) CreateTrade(ctx context.Context, t *models.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateTrade {
		return fmt.Errorf("create trade failed")
	}
	t.ID = m.nextTradeID
	m.nextTradeID++
	if t.Timestamp.IsZero() {
		t.Timestamp = m.baseTime.Add(time.Duration(t.ID) * time.Minute)
	}
	m.trades = append(m.trades, t)
	return nil
}

func (m *mockStore) CreateLot(ctx context.Context, l *models.Lot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateLot {
		return fmt.Errorf("create lot failed")
	}
	l.ID = m.nextLotID
	m.nextLotID++
	if l.CreatedAt.IsZero() {
		l.CreatedAt = m.baseTime.Add(time.Duration(l.ID) * time.Minute)
	}
	m.lots = append(m.lots, l)
	return nil
}

func (m *mockStore) BeginRealization(ctx context.Context) (RealizationTx, error) {
	if m.failBegin {
		return nil, fmt.Errorf("begin failed")
	}
	return &mockRealizationTx{store: m}, nil
}

// addLot seeds an open lot directly, bypassing trade creation.
func (m *mockStore) addLot(stockName string, quantity int64, createdAt time.Time) *models.Lot {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := &models.Lot{
		ID:               m.nextLotID,
		TradeID:          m.nextLotID,
		StockName:        stockName,
		LotQuantity:      decimal.NewFromInt(quantity),
		RealizedQuantity: decimal.Zero,
		LotStatus:        models.LotStatusOpen,
		CreatedAt:        createdAt,
	}
	m.nextLotID++
	m.lots = append(m.lots, l)
	return l
}

func (m *mockStore) lotByID(id int) *models.Lot {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.lots {
		if l.ID == id {
			return l
		}
	}
	return nil
}

type mockRealizationTx struct {
	store   *mockStore
	pending []*models.Lot
	done    bool
}

func (tx *mockRealizationTx) OpenLots(ctx context.Context, stockName string, mode models.OrderingMode) ([]*models.Lot, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	var out []*models.Lot
	for _, l := range tx.store.lots {
		if l.StockName != stockName || l.LotStatus == models.LotStatusFullyRealized {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			if mode == models.OrderingLIFO {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if mode == models.OrderingLIFO {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (tx *mockRealizationTx) UpdateLotRealization(ctx context.Context, l *models.Lot) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	tx.store.updateCalls++
	if tx.store.failUpdateAt > 0 && tx.store.updateCalls == tx.store.failUpdateAt {
		return fmt.Errorf("update lot failed")
	}
	clone := *l
	tx.pending = append(tx.pending, &clone)
	return nil
}

func (tx *mockRealizationTx) Commit() error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	if tx.done {
		return fmt.Errorf("transaction already finished")
	}
	tx.done = true
	for _, updated := range tx.pending {
		for _, l := range tx.store.lots {
			if l.ID == updated.ID {
				l.RealizedQuantity = updated.RealizedQuantity
				l.RealizedTradeID = updated.RealizedTradeID
				l.LotStatus = updated.LotStatus
			}
		}
	}
	tx.store.commits++
	return nil
}

func (tx *mockRealizationTx) Rollback() error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	if tx.done {
		return fmt.Errorf("transaction already finished")
	}
	tx.done = true
	tx.pending = nil
	tx.store.rollbacks++
	return nil
}

// mockInvalidator counts cache invalidations.
type mockInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (m *mockInvalidator) Invalidate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockInvalidator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
