package ledger

import (
	"context"
	"fmt"

	"github.com/stockledger/lot-service/internal/models"
)

// Summarizer produces the per-stock reconciliation summary: net traded
// quantity from the trade ledger cross-checked against the quantity still
// available in open lots. It is a pure read; a summary computed while trades
// are in flight may show a transient mismatch, which is surfaced rather than
// hidden.
type Summarizer struct {
	store SummaryStore
	cache SummaryCache
}

// NewSummarizer creates a summarizer. cache may be nil.
func NewSummarizer(store SummaryStore, cache SummaryCache) *Summarizer {
	return &Summarizer{store: store, cache: cache}
}

// Summarize returns one summary per stock, ordered by stock name, with the
// mismatch warning populated.
func (s *Summarizer) Summarize(ctx context.Context) ([]*models.StockSummary, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetSummaries(ctx); ok {
			return cached, nil
		}
	}

	summaries, err := s.store.StockAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stocks: %w", err)
	}
	for _, summary := range summaries {
		summary.Warning = warningFor(summary)
	}

	if s.cache != nil {
		s.cache.SetSummaries(ctx, summaries)
	}
	return summaries, nil
}

func warningFor(s *models.StockSummary) string {
	if !s.NetQuantity.Equal(s.TotalAvailableQuantity) {
		return fmt.Sprintf("Mismatch: net_quantity (%s) != total_available_quantity (%s)",
			s.NetQuantity, s.TotalAvailableQuantity)
	}
	return "All good, No mismatch in stocks"
}
