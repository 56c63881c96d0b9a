package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockledger/lot-service/internal/models"
)

const summaryKey = "stock:summary"

// SummaryCache keeps the reconciliation summary in Redis under a short TTL.
// Any Redis failure is treated as a cache miss; the summary is recomputed
// from the database.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a summary cache over the given Redis client.
func New(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// GetSummaries returns the cached summary, if present and decodable.
func (c *SummaryCache) GetSummaries(ctx context.Context) ([]*models.StockSummary, bool) {
	data, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		return nil, false
	}

	var summaries []*models.StockSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

// SetSummaries stores the summary for the configured TTL.
func (c *SummaryCache) SetSummaries(ctx context.Context, summaries []*models.StockSummary) {
	data, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	c.client.Set(ctx, summaryKey, data, c.ttl)
}

// Invalidate drops the cached summary after trades or lots change.
func (c *SummaryCache) Invalidate(ctx context.Context) {
	c.client.Del(ctx, summaryKey)
}
