package restclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a small synchronous REST client wrapping net/http with
// optional response caching, a request gate bounding the outbound request
// rate, in-flight de-duplication and metrics. It is safe for concurrent
// use. Successful calls return the response body as a string; responses
// with status >= 400 return an *HTTPError.
type Client struct {
	httpClient   *http.Client
	timeout      time.Duration
	gate         Gate
	requestDelay time.Duration
	cache        Cache
	cacheKeyFunc CacheKeyFunc
	inFlight     *InFlightTracker
	metrics      *MetricsCollector
	debug        *DebugConfig
	logger       Logger

	validationError error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for
// errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		timeout:      30 * time.Second,
		gate:         unrestrictedGate{},
		requestDelay: 0,
		cache:        nil,
		cacheKeyFunc: DefaultCacheKeyFunc,
		inFlight:     nil,
		metrics:      nil,
		debug:        DefaultDebugConfig(),
		logger:       nil,
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Get performs an HTTP GET. Responses are cached when caching is enabled.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	return c.do(ctx, http.MethodGet, url, nil, "", nil)
}

// GetWithHeaders performs an HTTP GET with extra request headers. The
// cache key incorporates the headers.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string) (string, error) {
	return c.do(ctx, http.MethodGet, url, headers, "", nil)
}

// Post performs an HTTP POST with a text body.
func (c *Client) Post(ctx context.Context, url, data string) (string, error) {
	return c.do(ctx, http.MethodPost, url, nil, "", []byte(data))
}

// PostWithHeaders performs an HTTP POST with a text body and extra
// request headers.
func (c *Client) PostWithHeaders(ctx context.Context, url, data string, headers map[string]string) (string, error) {
	return c.do(ctx, http.MethodPost, url, headers, "", []byte(data))
}

// PostBytes performs an HTTP POST with a raw byte body.
func (c *Client) PostBytes(ctx context.Context, url string, data []byte) (string, error) {
	return c.do(ctx, http.MethodPost, url, nil, "", data)
}

// PostForm form-encodes the given map and POSTs it as
// application/x-www-form-urlencoded.
func (c *Client) PostForm(ctx context.Context, url string, form map[string]string) (string, error) {
	return c.do(ctx, http.MethodPost, url, nil, contentTypeForm, []byte(EncodeForm(form)))
}

// PostReader reads r fully, base64-encodes the content and POSTs it as
// text.
func (c *Client) PostReader(ctx context.Context, url string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &ClientError{Type: ErrorTypeEncoding, Message: "failed to read request body", Cause: err}
	}
	return c.Post(ctx, url, base64.StdEncoding.EncodeToString(data))
}

// PostMultipart POSTs the given parts as a multipart/form-data body.
// Part values are strings or FormFile payloads.
func (c *Client) PostMultipart(ctx context.Context, url string, parts map[string]interface{}) (string, error) {
	body, boundary := EncodeMultipart(parts)
	return c.do(ctx, http.MethodPost, url, nil, MultipartContentType(boundary), body)
}

// Put performs an HTTP PUT with a text body.
func (c *Client) Put(ctx context.Context, url, data string) (string, error) {
	return c.do(ctx, http.MethodPut, url, nil, "", []byte(data))
}

// PutWithHeaders performs an HTTP PUT with a text body and extra request
// headers.
func (c *Client) PutWithHeaders(ctx context.Context, url, data string, headers map[string]string) (string, error) {
	return c.do(ctx, http.MethodPut, url, headers, "", []byte(data))
}

// PutForm form-encodes the given map and PUTs it as
// application/x-www-form-urlencoded.
func (c *Client) PutForm(ctx context.Context, url string, form map[string]string) (string, error) {
	return c.do(ctx, http.MethodPut, url, nil, contentTypeForm, []byte(EncodeForm(form)))
}

// PutReader reads r fully, base64-encodes the content and PUTs it as
// text.
func (c *Client) PutReader(ctx context.Context, url string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &ClientError{Type: ErrorTypeEncoding, Message: "failed to read request body", Cause: err}
	}
	return c.Put(ctx, url, base64.StdEncoding.EncodeToString(data))
}

// Delete performs an HTTP DELETE.
func (c *Client) Delete(ctx context.Context, url string) (string, error) {
	return c.do(ctx, http.MethodDelete, url, nil, "", nil)
}

// Head performs an HTTP HEAD. The returned body is normally empty.
func (c *Client) Head(ctx context.Context, url string) (string, error) {
	return c.do(ctx, http.MethodHead, url, nil, "", nil)
}

// ClearCache removes all cached responses. No-op when caching is
// disabled.
func (c *Client) ClearCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// do runs the full request pipeline: cache check, de-duplication, gate
// acquisition, transport call, status classification and cache store.
// When the context is cancelled while waiting on the gate it returns
// ("", nil): a deliberate no-result outcome, not an error.
func (c *Client) do(ctx context.Context, method, rawURL string, headers map[string]string, contentType string, body []byte) (string, error) {
	endpoint := endpointFromURL(rawURL)

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request", "requestID", requestID, "method", method, "url", rawURL, "endpoint", endpoint)
	}

	c.metrics.RecordRequestStart(method, endpoint)
	defer c.metrics.RecordRequestEnd(method, endpoint)

	cacheable := method == http.MethodGet && c.cache != nil
	cacheKey := ""
	if cacheable {
		cacheKey = c.cacheKeyFunc(rawURL, headers)
		if cached, found := c.cache.Get(cacheKey); found {
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("Cache hit", "requestID", requestID, "cacheKey", cacheKey)
			}
			c.metrics.RecordCacheHit(method, endpoint)
			return cached, nil
		}
		c.metrics.RecordCacheMiss(method, endpoint)
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("Cache miss", "requestID", requestID, "cacheKey", cacheKey)
		}
	}

	if c.inFlight != nil && (method == http.MethodGet || method == http.MethodHead) {
		dedupKey := method + "|" + c.cacheKeyFunc(rawURL, headers)
		entry, owner := c.inFlight.getOrCreate(dedupKey)
		if !owner {
			if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
				c.logger.Debug("Coalesced onto in-flight request", "requestID", requestID, "key", dedupKey)
			}
			c.metrics.RecordDeduplicationHit(method, endpoint)
			return entry.wait(ctx)
		}

		respBody, err := c.execute(ctx, method, rawURL, headers, contentType, body, cacheable, cacheKey, requestID, endpoint)
		c.inFlight.complete(dedupKey, respBody, err)
		return respBody, err
	}

	return c.execute(ctx, method, rawURL, headers, contentType, body, cacheable, cacheKey, requestID, endpoint)
}

// execute performs the gated transport call. The gate is released exactly
// once on every path.
func (c *Client) execute(ctx context.Context, method, rawURL string, headers map[string]string, contentType string, body []byte, cacheable bool, cacheKey, requestID, endpoint string) (string, error) {
	start := time.Now()

	gateStart := time.Now()
	if !c.gate.Acquire(ctx) {
		if c.debug != nil && c.debug.Enabled && c.debug.LogGate && c.logger != nil {
			c.logger.Warn("Gate wait cancelled", "requestID", requestID, "endpoint", endpoint)
		}
		c.metrics.RecordGateCancelled(method, endpoint)
		return "", nil
	}
	defer c.gate.Release()
	c.metrics.RecordGateWait(method, endpoint, time.Since(gateStart))

	// A duplicate fetch may have completed while this caller waited on
	// the gate.
	if cacheable {
		if cached, found := c.cache.Get(cacheKey); found {
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("Cache hit after gate", "requestID", requestID, "cacheKey", cacheKey)
			}
			c.metrics.RecordCacheHit(method, endpoint)
			return cached, nil
		}
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		c.metrics.RecordError(ErrorTypeTransport, method, endpoint)
		return "", &ClientError{Type: ErrorTypeTransport, Message: "invalid request", Cause: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set(contentTypeHeader, contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordError(ErrorTypeTransport, method, endpoint)
		if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
			c.logger.Error("Transport failure", "requestID", requestID, "error", err.Error())
		}
		return "", &ClientError{Type: ErrorTypeTransport, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		httpErr := c.statusError(method, rawURL, resp)
		c.metrics.RecordError("HTTP", method, endpoint)
		c.metrics.RecordRequest(method, endpoint, resp.StatusCode, time.Since(start))
		if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
			c.logger.Warn("Error status", "requestID", requestID, "status", resp.StatusCode)
		}
		return "", httpErr
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordError(ErrorTypeTransport, method, endpoint)
		return "", &ClientError{Type: ErrorTypeTransport, Message: "failed to read response body", Cause: err}
	}

	result := string(respBody)
	if cacheable {
		c.cache.Set(cacheKey, result)
		if memoryCache, ok := c.cache.(*MemoryCache); ok {
			c.metrics.RecordCacheSize("default", memoryCache.Len())
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("Response cached", "requestID", requestID, "cacheKey", cacheKey)
		}
	}

	c.metrics.RecordRequest(method, endpoint, resp.StatusCode, time.Since(start))
	return result, nil
}

// statusError builds the *HTTPError for an error response, reading the
// body for a message and falling back to the default template when it is
// unavailable.
func (c *Client) statusError(method, rawURL string, resp *http.Response) *HTTPError {
	message := ""
	if body, err := io.ReadAll(resp.Body); err == nil {
		message = string(body)
	}
	if message == "" {
		message = DefaultErrorMessage + strconv.Itoa(resp.StatusCode) + "."
	}

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Method:     method,
		URL:        rawURL,
	}
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// endpointFromURL extracts a host+path endpoint label for metrics and
// logs.
func endpointFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}

	var builder strings.Builder
	builder.WriteString(u.Host)

	if u.Path != "" && u.Path != "/" {
		builder.WriteString(u.Path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
