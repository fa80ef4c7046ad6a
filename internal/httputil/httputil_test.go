// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rentscope/pkg/types"
)

func TestNewClientSetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := NewClient(types.HTTPConfig{UserAgent: "rentscope/test"})
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "rentscope/test", got)
}

func TestNewClientKeepsExplicitUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := NewClient(types.HTTPConfig{UserAgent: "rentscope/test"})
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "caller/1.0")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "caller/1.0", got)
}

func TestNewClientDefaultTimeout(t *testing.T) {
	client := NewClient(types.HTTPConfig{})
	assert.Equal(t, 15*time.Second, client.Timeout)
	assert.Nil(t, client.Transport, "no user agent configured means the default transport")
}

func TestLimiterFirstCallDoesNotSleep(t *testing.T) {
	var slept time.Duration
	l := NewLimiter()
	l.sleep = func(d time.Duration) { slept += d }

	l.Wait("geocoding", 100*time.Millisecond)
	assert.Zero(t, slept, "first call should not sleep")
}

func TestLimiterSpacesRepeatCalls(t *testing.T) {
	var slept time.Duration
	now := time.Unix(1000, 0)
	l := NewLimiter()
	l.sleep = func(d time.Duration) { slept += d }
	l.now = func() time.Time { return now }

	l.Wait("nyc_property", time.Second)
	now = now.Add(300 * time.Millisecond)
	l.Wait("nyc_property", time.Second)

	assert.Equal(t, 700*time.Millisecond, slept)
}

func TestLimiterTracksAPIsIndependently(t *testing.T) {
	var slept time.Duration
	now := time.Unix(1000, 0)
	l := NewLimiter()
	l.sleep = func(d time.Duration) { slept += d }
	l.now = func() time.Time { return now }

	l.Wait("geocoding", time.Second)
	l.Wait("nyc_crime", time.Second)
	assert.Zero(t, slept, "different APIs must not block each other")
}

func TestDoWithRetrySuccessPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), srv.Client(), req, 3)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDoWithRetryRetriesOn429(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Millisecond
	defer func() { RetryBaseDelay = old }()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), srv.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, calls)
}

func TestDoWithRetryReturnsLast429(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Millisecond
	defer func() { RetryBaseDelay = old }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), srv.Client(), req, 2)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
