package config

import (
	"errors"
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Webhook.Secret == "" {
		return errors.New("webhook.secret is required")
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		return fmt.Errorf("webhook: max_body_bytes must be > 0 (got %d)", c.Webhook.MaxBodyBytes)
	}

	if err := c.Queue.validate(); err != nil {
		return fmt.Errorf("queue: %w", err)
	}

	if err := c.Detection.validate(); err != nil {
		return fmt.Errorf("detection: %w", err)
	}

	if c.Catalog.RateLimit <= 0 {
		return fmt.Errorf("catalog: rate_limit must be > 0 (got %v)", c.Catalog.RateLimit)
	}

	return nil
}

func (q *QueueConfig) validate() error {
	if q.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", q.MaxRetries)
	}
	if q.BackoffBase <= 0 {
		return fmt.Errorf("backoff_base must be > 0 (got %v)", q.BackoffBase)
	}
	if q.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", q.BatchSize)
	}
	if q.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0 (got %d)", q.Concurrency)
	}
	if q.StaleAfter <= 0 {
		return fmt.Errorf("stale_after must be > 0 (got %v)", q.StaleAfter)
	}
	if q.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be > 0 (got %d)", q.RetentionDays)
	}
	if q.PollInterval <= 0 || q.ReclaimInterval <= 0 || q.SweepInterval <= 0 {
		return fmt.Errorf("poll, reclaim and sweep intervals must be > 0")
	}
	if q.CoalesceDelay < 0 {
		return fmt.Errorf("coalesce_delay must be >= 0 (got %v)", q.CoalesceDelay)
	}
	return nil
}

func (d *DetectionConfig) validate() error {
	if d.PriceMediumRatio <= 0 || d.PriceHighRatio <= d.PriceMediumRatio {
		return fmt.Errorf("price ratios must satisfy 0 < medium < high (got %v, %v)",
			d.PriceMediumRatio, d.PriceHighRatio)
	}
	if d.DedupWindow <= 0 {
		return fmt.Errorf("dedup_window must be > 0 (got %v)", d.DedupWindow)
	}
	if d.InventoryPageSize <= 0 || d.InventoryMaxPages <= 0 {
		return fmt.Errorf("inventory paging must be positive (got size %d, pages %d)",
			d.InventoryPageSize, d.InventoryMaxPages)
	}
	if d.EstimateFactor <= 0 || d.EstimateFactor > 1 {
		return fmt.Errorf("estimate_factor must be in (0, 1] (got %v)", d.EstimateFactor)
	}
	return nil
}
