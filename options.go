package restclient

import (
	"fmt"
	"net/http"
	"time"
)

// Option represents a configuration option.
type Option func(*Client)

// WithRequestDelay enables rate limiting: requests are serialized and each
// new request waits at least d after the previous one started. A zero or
// negative delay leaves the client unrestricted.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.requestDelay = 0
			c.gate = unrestrictedGate{}
			return
		}
		c.requestDelay = d
		c.gate = newSerialGate(d)
	}
}

// WithCache enables response caching for GET requests using the default
// in-memory cache.
func WithCache() Option {
	return func(c *Client) {
		c.cache = NewMemoryCache()
	}
}

// WithCustomCache sets a custom cache implementation, such as GoCache or
// RedisCache.
func WithCustomCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithCacheKeyFunc sets a custom cache key function.
func WithCacheKeyFunc(fn CacheKeyFunc) Option {
	return func(c *Client) {
		c.cacheKeyFunc = fn
	}
}

// WithDeduplication coalesces identical concurrent GET/HEAD requests onto
// a single transport call.
func WithDeduplication() Option {
	return func(c *Client) {
		c.inFlight = NewInFlightTracker()
	}
}

// WithTimeout sets the request timeout on the embedded HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
		if c.timeout != 0 {
			c.httpClient.Timeout = c.timeout
		}
	}
}

// WithMetrics enables Prometheus metrics collection on the default
// registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with the default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request
// IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) ValidateConfiguration() error {
	var errors []string

	errors = append(errors, c.validateGateConfig()...)
	errors = append(errors, c.validateCacheConfig()...)
	errors = append(errors, c.validateDebugConfig()...)
	errors = append(errors, c.validateHTTPClientConfig()...)
	errors = append(errors, c.validateExtremeValues()...)

	if len(errors) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errors),
		}
	}

	return nil
}

// validateGateConfig validates gate-related configuration.
func (c *Client) validateGateConfig() []string {
	var errors []string

	if c.gate == nil {
		errors = append(errors, "gate cannot be nil")
	}

	if c.requestDelay < 0 {
		errors = append(errors, "requestDelay must be non-negative")
	}

	return errors
}

// validateCacheConfig validates cache configuration.
func (c *Client) validateCacheConfig() []string {
	var errors []string

	if c.cacheKeyFunc == nil {
		errors = append(errors, "cacheKeyFunc cannot be nil")
	}

	return errors
}

// validateDebugConfig validates debug configuration.
func (c *Client) validateDebugConfig() []string {
	var errors []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errors = append(errors, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errors = append(errors, "logger must be set when debug is enabled")
		}
	}

	return errors
}

// validateHTTPClientConfig validates HTTP client configuration.
func (c *Client) validateHTTPClientConfig() []string {
	var errors []string

	if c.httpClient == nil {
		errors = append(errors, "HTTP client cannot be nil")
	}

	if c.timeout <= 0 {
		errors = append(errors, "timeout must be positive")
	}

	return errors
}

// validateExtremeValues checks that configuration values are within
// reasonable bounds.
func (c *Client) validateExtremeValues() []string {
	var errors []string

	if c.timeout > 10*time.Minute {
		errors = append(errors, "timeout > 10m may cause requests to hang for too long")
	}

	if c.requestDelay > time.Hour {
		errors = append(errors, "requestDelay > 1h may stall callers indefinitely")
	}

	return errors
}
