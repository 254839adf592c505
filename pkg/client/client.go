// Package client provides the authenticated request pipeline: bearer token
// attachment with one 401 refresh-and-retry, Retry-After honoring 429
// retries, bounded network backoff, client-side throttling, and
// deduplication of identical in-flight requests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client executes authenticated API requests. All methods are safe for
// concurrent use; identical concurrent requests share one network call
// unless deduplication is disabled.
type Client struct {
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
	dedupe     *deduper
	logger     zerolog.Logger
}

// Response is a fully-read API response. Deduplicated callers may share one
// Response value, so treat it as read-only.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// New creates a client. The configuration is validated eagerly; no request
// is attempted with invalid settings.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.RequestTimeout}
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = log.With().Str("component", "client").Logger()
	}

	c := &Client{
		httpClient: hc,
		config:     cfg,
		logger:     logger,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	if !cfg.DisableDeduplication {
		c.dedupe = newDeduper()
	}
	return c, nil
}

// Do executes one API call and returns the fully-read response. The path is
// relative to the configured base URL.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte) (*Response, error) {
	if c.dedupe == nil {
		return c.send(ctx, method, path, query, body)
	}
	key := RequestKey(method, path, query, body)
	return c.dedupe.do(ctx, key, func() (*Response, error) {
		return c.send(ctx, method, path, query, body)
	})
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request; a non-nil body is sent as JSON.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPost, path, query, data)
}

// Put performs a PUT request; a non-nil body is sent as JSON.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPut, path, query, data)
}

// Delete performs a DELETE request; some endpoints carry a JSON body here
// too, so a non-nil body is sent as JSON.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodDelete, path, query, data)
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return data, nil
}

// send runs the per-call state machine: throttle, attach the bearer token,
// execute, then apply the 401, 429, and network retry policies. Each policy
// keeps its own budget. Cancellation always propagates immediately and is
// never reclassified as a retryable failure.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte) (*Response, error) {
	endpoint := path
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var (
		invalidateToken bool
		authRetried     bool
		rateRetries     int
		netFailures     int
	)
	backoff := c.config.NetworkRecovery.BaseDelay

	for {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, cancelled(ctx.Err())
			}
		}

		tok, err := c.config.Auth.Token(ctx, invalidateToken)
		if err != nil {
			if ctx.Err() != nil {
				return nil, cancelled(ctx.Err())
			}
			return nil, fmt.Errorf("acquire token: %w", err)
		}
		invalidateToken = false

		req, err := c.buildRequest(ctx, method, path, query, body, tok.AccessToken)
		if err != nil {
			return nil, err
		}

		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("method", method).
			Msg("Executing API request")

		resp, err := c.roundTrip(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, cancelled(ctx.Err())
			}
			netFailures++
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()

			if !c.config.NetworkRecovery.Enabled || netFailures > c.config.NetworkRecovery.MaxRetries {
				c.logger.Error().
					Err(err).
					Str("endpoint", endpoint).
					Int("attempts", netFailures).
					Msg("Request failed")
				return nil, &NetworkError{Attempts: netFailures, Err: err}
			}

			// Add jitter (±20% randomness)
			wait := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
			retriesTotal.WithLabelValues("network").Inc()
			retryWaitSeconds.WithLabelValues("network").Observe(wait.Seconds())

			c.logger.Warn().
				Err(err).
				Str("endpoint", endpoint).
				Int("attempt", netFailures).
				Dur("backoff", wait).
				Msg("Network failure, retrying after backoff")

			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			backoff = time.Duration(float64(backoff) * c.config.NetworkRecovery.Multiplier)
			if backoff > c.config.NetworkRecovery.MaxDelay {
				backoff = c.config.NetworkRecovery.MaxDelay
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			requestsTotal.WithLabelValues(endpoint, "401").Inc()
			errorsTotal.WithLabelValues(string(ErrorClassAuth)).Inc()
			if authRetried {
				c.logger.Warn().
					Str("endpoint", endpoint).
					Msg("Still unauthorized after token refresh")
				return nil, &APIError{
					StatusCode: resp.StatusCode,
					Message:    apiMessage(resp.Body),
					Body:       resp.Body,
					Err:        ErrUnauthorized,
				}
			}
			authRetried = true
			invalidateToken = true
			retriesTotal.WithLabelValues("auth").Inc()
			c.logger.Debug().
				Str("endpoint", endpoint).
				Msg("Unauthorized, refreshing token and retrying once")
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			requestsTotal.WithLabelValues(endpoint, "429").Inc()
			errorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
			retryAfter := retryAfterDelay(resp.Header)

			if rateRetries >= c.config.MaxRateLimitRetries {
				c.logger.Warn().
					Str("endpoint", endpoint).
					Dur("retry_after", retryAfter).
					Int("attempts", rateRetries+1).
					Msg("Rate limit retry budget exhausted")
				return nil, &RateLimitError{
					StatusCode: resp.StatusCode,
					RetryAfter: retryAfter,
					Body:       resp.Body,
				}
			}
			rateRetries++
			retriesTotal.WithLabelValues("rate_limit").Inc()
			retryWaitSeconds.WithLabelValues("rate_limit").Observe(retryAfter.Seconds())

			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("retry_after", retryAfter).
				Int("attempt", rateRetries).
				Msg("Rate limited, honoring Retry-After")

			if err := sleepCtx(ctx, retryAfter); err != nil {
				return nil, err
			}
			continue

		case resp.StatusCode >= 400:
			class := classifyStatus(resp.StatusCode)
			requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
			errorsTotal.WithLabelValues(string(class)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("API request error")
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    apiMessage(resp.Body),
				Body:       resp.Body,
			}
		}

		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		return resp, nil
	}
}

// roundTrip executes one HTTP attempt and drains the body. Errors here are
// transport-level by definition.
func (c *Client) roundTrip(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) buildRequest(ctx context.Context, method, path string, query url.Values, body []byte, accessToken string) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.config.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range c.config.CustomHeaders {
		req.Header.Set(name, value)
	}
	return req, nil
}

// retryAfterDelay reads the Retry-After header in seconds. Absent or
// malformed values mean no wait.
func retryAfterDelay(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// sleepCtx waits for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return cancelled(ctx.Err())
	case <-time.After(d):
		return nil
	}
}
