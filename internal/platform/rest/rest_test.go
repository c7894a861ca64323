package rest

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

func newTestClient(delay time.Duration) *Client {
	return NewClient(Config{
		Timeout:     time.Second,
		MaxAttempts: 3,
		RetryDelay:  delay,
	})
}

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"results":[{"id":1}]}`))
	}))
	defer srv.Close()

	var payload struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	err := newTestClient(time.Millisecond).GetJSON(context.Background(), srv.URL, &payload)
	require.NoError(t, err)
	require.Len(t, payload.Results, 1)
	assert.Equal(t, 1, payload.Results[0].ID)
}

func TestGetJSON_RetriesTransientThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	delay := 20 * time.Millisecond
	var payload struct {
		OK bool `json:"ok"`
	}
	start := time.Now()
	err := newTestClient(delay).GetJSON(context.Background(), srv.URL, &payload)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, payload.OK)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	// Two retries means two full inter-attempt waits.
	assert.GreaterOrEqual(t, elapsed, 2*delay)
}

func TestGetJSON_ExhaustsRetryBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(time.Millisecond).GetJSON(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGetJSON_RetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := newTestClient(time.Millisecond).GetJSON(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGetJSON_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message":"The resource you requested could not be found."}`))
	}))
	defer srv.Close()

	err := newTestClient(time.Millisecond).GetJSON(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "4xx must not be retried")

	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusNotFound, ce.StatusCode)
	assert.Equal(t, "The resource you requested could not be found.", ce.Message)
}

func TestGetJSON_AuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	err := newTestClient(time.Millisecond).GetJSON(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.False(t, IsTransient(err))

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid credentials", ae.Message)
}

func TestGetJSON_MalformedBodyNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"results": not-json`))
	}))
	defer srv.Close()

	var payload map[string]any
	err := newTestClient(time.Millisecond).GetJSON(context.Background(), srv.URL, &payload)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetJSON_NetworkErrorRetried(t *testing.T) {
	// Server closed immediately: every attempt fails at the transport level.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestClient(time.Millisecond).GetJSON(context.Background(), url, nil)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := newTestClient(time.Second).GetJSON(ctx, srv.URL, nil)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
