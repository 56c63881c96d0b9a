package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/lot-service/internal/models"
)

type mockSummaryStore struct {
	summaries []*models.StockSummary
	err       error
	calls     int
}

func (m *mockSummaryStore) StockAggregates(ctx context.Context) ([]*models.StockSummary, error) {
	m.calls++
	return m.summaries, m.err
}

type mockSummaryCache struct {
	stored   []*models.StockSummary
	getCalls int
	setCalls int
}

func (m *mockSummaryCache) GetSummaries(ctx context.Context) ([]*models.StockSummary, bool) {
	m.getCalls++
	if m.stored == nil {
		return nil, false
	}
	return m.stored, true
}

func (m *mockSummaryCache) SetSummaries(ctx context.Context, summaries []*models.StockSummary) {
	m.setCalls++
	m.stored = summaries
}

func (m *mockSummaryCache) Invalidate(ctx context.Context) {
	m.stored = nil
}

func aggregateRow(stock string, net, available int64) *models.StockSummary {
	return &models.StockSummary{
		StockName:              stock,
		NetQuantity:            decimal.NewFromInt(net),
		TotalAvailableQuantity: decimal.NewFromInt(available),
	}
}

func TestSummarizerSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("flags a mismatch between net and available quantity", func(t *testing.T) {
		store := &mockSummaryStore{summaries: []*models.StockSummary{aggregateRow("INFY", 70, 60)}}
		summarizer := NewSummarizer(store, nil)

		summaries, err := summarizer.Summarize(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "Mismatch: net_quantity (70) != total_available_quantity (60)", summaries[0].Warning)
	})

	t.Run("confirms matching stocks", func(t *testing.T) {
		store := &mockSummaryStore{summaries: []*models.StockSummary{aggregateRow("TCS", 70, 70)}}
		summarizer := NewSummarizer(store, nil)

		summaries, err := summarizer.Summarize(ctx)
		require.NoError(t, err)
		assert.Equal(t, "All good, No mismatch in stocks", summaries[0].Warning)
	})

	t.Run("serves from cache without touching the store", func(t *testing.T) {
		store := &mockSummaryStore{}
		cached := &mockSummaryCache{stored: []*models.StockSummary{aggregateRow("TCS", 10, 10)}}
		summarizer := NewSummarizer(store, cached)

		summaries, err := summarizer.Summarize(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, 0, store.calls)
	})

	t.Run("populates the cache on a miss", func(t *testing.T) {
		store := &mockSummaryStore{summaries: []*models.StockSummary{aggregateRow("TCS", 10, 10)}}
		cached := &mockSummaryCache{}
		summarizer := NewSummarizer(store, cached)

		_, err := summarizer.Summarize(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, store.calls)
		assert.Equal(t, 1, cached.setCalls)
		require.Len(t, cached.stored, 1)
		assert.NotEmpty(t, cached.stored[0].Warning)
	})

	t.Run("propagates store failures", func(t *testing.T) {
		store := &mockSummaryStore{err: fmt.Errorf("connection refused")}
		summarizer := NewSummarizer(store, nil)

		_, err := summarizer.Summarize(ctx)
		require.Error(t, err)
	})
}
