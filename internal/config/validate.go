package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.SubscriptionKey == "" {
		return errors.New("api.subscription_key is required")
	}
	if c.API.Username == "" {
		return errors.New("api.username is required")
	}
	if c.API.Password == "" {
		return errors.New("api.password is required")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must be >= 0, got %d", c.API.MaxRetries)
	}
	if c.API.PageSize < 1 {
		return fmt.Errorf("api.page_size must be >= 1, got %d", c.API.PageSize)
	}
	if c.API.RateRequests < 1 {
		return fmt.Errorf("api.rate_requests must be >= 1, got %d", c.API.RateRequests)
	}

	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}

	if c.Batch.MaxWindowDays < 1 {
		return fmt.Errorf("batch.max_window_days must be >= 1, got %d", c.Batch.MaxWindowDays)
	}

	if c.Update.DAMLagDays < 0 {
		return errors.New("update.dam_lag_days must be >= 0")
	}
	if c.Update.SPPLagDays < 0 {
		return errors.New("update.spp_lag_days must be >= 0")
	}
	if c.Update.BackfillDays < 1 {
		return errors.New("update.backfill_days must be >= 1")
	}

	return nil
}
