// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers shared by the data
// collectors: per-API request spacing and retry on rate-limit responses.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/rentscope/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 3
	defaultTimeout    = 15 * time.Second
)

// NewClient builds the HTTP client the collectors share: cfg.Timeout
// (default 15s) and cfg.UserAgent stamped on every outgoing request.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	if cfg.UserAgent != "" {
		client.Transport = userAgentTransport{agent: cfg.UserAgent, next: http.DefaultTransport}
	}
	return client
}

// userAgentTransport sets a User-Agent header on requests that lack one.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		clone := req.Clone(req.Context())
		clone.Header.Set("User-Agent", t.agent)
		req = clone
	}
	return t.next.RoundTrip(req)
}

// Limiter enforces a minimum delay between calls to each named external
// API by tracking last-call timestamps. The pipeline is single-threaded,
// so no locking is required.
type Limiter struct {
	last map[string]time.Time

	// sleep is swappable for tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// NewLimiter returns a Limiter with real clocks.
func NewLimiter() *Limiter {
	return &Limiter{
		last:  make(map[string]time.Time),
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// Wait blocks until at least minDelay has passed since the previous Wait
// for the same api name, then records the call.
func (l *Limiter) Wait(api string, minDelay time.Duration) {
	if prev, ok := l.last[api]; ok {
		elapsed := l.now().Sub(prev)
		if elapsed < minDelay {
			l.sleep(minDelay - elapsed)
		}
	}
	l.last[api] = l.now()
}

// DoWithRetry executes req and retries on HTTP 429 with exponential
// backoff (RetryBaseDelay doubling each attempt). The response body is
// drained before each retry. After exhausting retries the last 429
// response is returned so the caller can inspect it. A cancelled context
// during backoff returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
