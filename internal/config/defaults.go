package config

import (
	"time"

	"github.com/gridfin/ercot-data/internal/api"
)

// Default values for optional configuration fields. DAM bid and award data
// publishes 60 days after the operating day; settlement point prices are
// available the next day.
const (
	DefaultAPITimeout    = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryBackoff  = time.Second
	DefaultDatabasePath  = "ercot_data.db"
	DefaultMaxWindowDays = 30
	DefaultDAMLagDays    = 60
	DefaultSPPLagDays    = 1
	DefaultBackfillDays  = 365
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = api.DefaultBaseURL
	}
	if c.API.TokenURL == "" {
		c.API.TokenURL = api.DefaultTokenURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = api.DefaultPageSize
	}
	if c.API.RateRequests == 0 {
		c.API.RateRequests = api.DefaultRateRequests
	}
	if c.API.RateInterval == 0 {
		c.API.RateInterval = api.DefaultRateInterval
	}

	// Database defaults
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}

	// Batch defaults
	if c.Batch.MaxWindowDays == 0 {
		c.Batch.MaxWindowDays = DefaultMaxWindowDays
	}

	// Update defaults
	if c.Update.DAMLagDays == 0 {
		c.Update.DAMLagDays = DefaultDAMLagDays
	}
	if c.Update.SPPLagDays == 0 {
		c.Update.SPPLagDays = DefaultSPPLagDays
	}
	if c.Update.BackfillDays == 0 {
		c.Update.BackfillDays = DefaultBackfillDays
	}
}
