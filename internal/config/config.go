package config

import "time"

// Config is the root configuration for the pipeline.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Batch    BatchConfig    `yaml:"batch"`
	QSE      QSEConfig      `yaml:"qse"`
	Update   UpdateConfig   `yaml:"update"`
}

// APIConfig holds ERCOT Public Reports API settings.
type APIConfig struct {
	BaseURL         string        `yaml:"base_url"`
	TokenURL        string        `yaml:"token_url"`
	SubscriptionKey string        `yaml:"subscription_key"` // Ocp-Apim-Subscription-Key header
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"`
	PageSize        int           `yaml:"page_size"`
	RateRequests    int           `yaml:"rate_requests"` // requests per rate_interval
	RateInterval    time.Duration `yaml:"rate_interval"`
}

// DatabaseConfig holds the embedded database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// BatchConfig holds batch planner settings.
type BatchConfig struct {
	MaxWindowDays int `yaml:"max_window_days"`
}

// QSEConfig holds the QSE tracking list location.
type QSEConfig struct {
	TrackingFile string `yaml:"tracking_file"`
}

// UpdateConfig controls incremental update runs. Lag days account for
// ERCOT's publication delay per report family; backfill bounds the range
// fetched when a table is still empty.
type UpdateConfig struct {
	DAMLagDays   int `yaml:"dam_lag_days"`
	SPPLagDays   int `yaml:"spp_lag_days"`
	BackfillDays int `yaml:"backfill_days"`
}
