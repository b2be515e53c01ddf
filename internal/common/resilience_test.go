package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getBuilder(url string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}

func TestDoRequest_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client()}
	resp, err := DoRequest(context.Background(), cfg, NewBreaker(t.Name()), getBuilder(srv.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDoRequest_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{
		Client:  srv.Client(),
		Backoff: BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond},
	}
	resp, err := DoRequest(context.Background(), cfg, NewBreaker(t.Name()), getBuilder(srv.URL))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoRequest_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{
		Client:  srv.Client(),
		Backoff: BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond},
	}
	_, err := DoRequest(context.Background(), cfg, NewBreaker(t.Name()), getBuilder(srv.URL))
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDoRequest_NoRetriesByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := DoRequest(context.Background(), HTTPClientConfig{Client: srv.Client()}, NewBreaker(t.Name()), getBuilder(srv.URL))
	require.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDoRequest_InvalidConfig(t *testing.T) {
	_, err := DoRequest(context.Background(), HTTPClientConfig{}, NewBreaker(t.Name()), getBuilder("http://example.invalid"))
	assert.ErrorIs(t, err, errNoHTTPClient)

	cfg := HTTPClientConfig{Client: http.DefaultClient, Backoff: BackoffConfig{MaxRetries: 2}}
	_, err = DoRequest(context.Background(), cfg, NewBreaker(t.Name()), getBuilder("http://example.invalid"))
	assert.ErrorIs(t, err, errInvalidConfig)
}

func TestDoRequest_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client()}
	cb := NewBreaker(t.Name())

	for range 10 {
		_, err := DoRequest(context.Background(), cfg, cb, getBuilder(srv.URL+"/missing"))
		require.ErrorIs(t, err, ErrUnexpectedStatus)
	}

	resp, err := DoRequest(context.Background(), cfg, cb, getBuilder(srv.URL+"/present"))
	require.NoError(t, err)
	resp.Body.Close()
}

func TestDoRequest_ServerErrorsTripBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client()}
	cb := NewBreaker(t.Name())

	for range 6 {
		_, err := DoRequest(context.Background(), cfg, cb, getBuilder(srv.URL))
		require.ErrorIs(t, err, ErrServerError)
	}

	_, err := DoRequest(context.Background(), cfg, cb, getBuilder(srv.URL))
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(6), calls.Load())
}
