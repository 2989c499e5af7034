package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default client settings. ERCOT's public rate limit is 30 requests per
// minute for subscribed keys; the conservative default below matches the
// limit the pipeline was tuned against.
const (
	DefaultBaseURL  = "https://api.ercot.com/api/public-reports"
	DefaultTokenURL = "https://ercotb2c.b2clogin.com/ercotb2c.onmicrosoft.com/B2C_1_PUBAPI-ROPC-FLOW/oauth2/v2.0/token"
	DefaultClientID = "fec253ea-0d06-4272-a5e6-b478baeecd70"

	DefaultRateRequests = 10
	DefaultRateInterval = time.Minute
	DefaultPageSize     = 5000
)

// Client provides access to the ERCOT Public Reports REST API.
type Client struct {
	baseURL         string
	subscriptionKey string
	httpClient      *http.Client
	logger          *slog.Logger
	limiter         *rate.Limiter

	tokenURL string
	clientID string
	username string
	password string

	mu      sync.RWMutex
	idToken string

	maxRetries   int
	retryBackoff time.Duration
	pageSize     int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new ERCOT API client. The subscription key is sent
// with every request; bearer credentials are supplied via WithCredentials
// (and resolved by Authenticate) or WithStaticToken.
func NewClient(baseURL, subscriptionKey string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:         baseURL,
		subscriptionKey: subscriptionKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		limiter:      rate.NewLimiter(rate.Every(DefaultRateInterval/DefaultRateRequests), 1),
		tokenURL:     DefaultTokenURL,
		clientID:     DefaultClientID,
		maxRetries:   3,
		retryBackoff: time.Second,
		pageSize:     DefaultPageSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithCredentials sets the username/password used by Authenticate.
func WithCredentials(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTokenURL overrides the B2C token endpoint (used by tests and the
// alternate deployment).
func WithTokenURL(url string) ClientOption {
	return func(c *Client) {
		c.tokenURL = url
	}
}

// WithStaticToken installs a pre-resolved bearer token, bypassing
// Authenticate.
func WithStaticToken(token string) ClientOption {
	return func(c *Client) {
		c.idToken = token
	}
}

// WithRateLimit sets the shared request budget: requests per interval.
// The bucket is owned by the client so every fetch issued through it,
// concurrent or not, draws from the same budget.
func WithRateLimit(requests int, interval time.Duration) ClientOption {
	return func(c *Client) {
		if requests > 0 && interval > 0 {
			c.limiter = rate.NewLimiter(rate.Every(interval/time.Duration(requests)), 1)
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithPageSize sets the requested records-per-page.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.idToken
}

func (c *Client) setToken(t string) {
	c.mu.Lock()
	c.idToken = t
	c.mu.Unlock()
}
