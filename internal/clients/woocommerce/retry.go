package woocommerce

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig defines backoff behavior for throttled or failing API calls
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	Jitter         float64
}

// DefaultRetryConfig returns the retry settings used against live stores
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.1,
	}
}

// Retrier retries HTTP calls on 429 and 5xx responses with exponential
// backoff, honoring Retry-After when the store sends one.
type Retrier struct {
	config *RetryConfig
}

// NewRetrier creates a retrier with the given config
func NewRetrier(config *RetryConfig) *Retrier {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &Retrier{config: config}
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (r *Retrier) backoff(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return retryAfter
	}
	d := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffFactor, float64(attempt))
	if r.config.Jitter > 0 {
		d += d * r.config.Jitter * (rand.Float64()*2 - 1)
	}
	if d > float64(r.config.MaxBackoff) {
		d = float64(r.config.MaxBackoff)
	}
	return time.Duration(d)
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 0
}

// Do executes fn until it returns a non-retryable outcome or retries are
// exhausted. Network errors are retried; the last response/error wins.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		resp, err = fn(ctx)

		retryable := err != nil || (resp != nil && retryableStatus(resp.StatusCode))
		if !retryable || attempt >= r.config.MaxRetries {
			return resp, err
		}

		var retryAfter time.Duration
		if err == nil {
			retryAfter = parseRetryAfter(resp)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-time.After(r.backoff(attempt, retryAfter)):
		}
	}
}
