package openlibrary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string, maxRetries int, minInterval time.Duration) (*Client, *[]time.Duration) {
	t.Helper()

	var slept []time.Duration
	c := NewClient(Options{
		BaseURL:     serverURL,
		MinInterval: minInterval,
		MaxRetries:  maxRetries,
		BackoffBase: 2 * time.Second,
	})
	// capture backoff delays instead of sleeping them out
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func TestClientRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"B1","title":"Gatsby","authors":[{"key":"A1","name":"F. Fitzgerald"}]}`))
	}))
	defer srv.Close()

	c, slept := newTestClient(t, srv.URL, 3, time.Millisecond)

	var record BookRecord
	attempts, err := c.doRequest(context.Background(), "/api/books/B1", &record)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "Gatsby", record.Title)
	assert.Equal(t, "A1", record.PrimaryAuthor().ExternalID)

	// backoff doubles per retry: base, base*2
	require.Len(t, *slept, 2)
	assert.Equal(t, 2*time.Second, (*slept)[0])
	assert.Equal(t, 4*time.Second, (*slept)[1])
}

func TestClientExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, 2, time.Millisecond)

	var record BookRecord
	attempts, err := c.doRequest(context.Background(), "/api/books/B1", &record)

	require.Error(t, err)
	assert.Equal(t, 3, attempts)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 3, upstream.Attempts)
}

func TestClientNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, slept := newTestClient(t, srv.URL, 3, time.Millisecond)

	_, err := c.GetBook(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, *slept)
}

func TestClientClientErrorIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, slept := newTestClient(t, srv.URL, 3, time.Millisecond)

	var record BookRecord
	attempts, err := c.doRequest(context.Background(), "/api/books/B1", &record)

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *slept)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 1, upstream.Attempts)
}

func TestClientPacing(t *testing.T) {
	var mu sync.Mutex
	var starts []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"B1","title":"Gatsby","authors":[]}`))
	}))
	defer srv.Close()

	interval := 50 * time.Millisecond
	c, _ := newTestClient(t, srv.URL, 1, interval)

	for i := 0; i < 3; i++ {
		var record BookRecord
		_, err := c.doRequest(context.Background(), "/api/books/B1", &record)
		require.NoError(t, err)
	}

	require.Len(t, starts, 3)
	// start-to-start gaps must respect the minimum interval (small jitter allowance)
	for i := 1; i < len(starts); i++ {
		gap := starts[i].Sub(starts[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond,
			"gap between request %d and %d too small: %v", i-1, i, gap)
	}
}

func TestClientSingleInFlight(t *testing.T) {
	var inFlight, maxInFlight int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			seen := atomic.LoadInt32(&maxInFlight)
			if n <= seen || atomic.CompareAndSwapInt32(&maxInFlight, seen, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"B1","title":"Gatsby","authors":[]}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, 1, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var record BookRecord
			_, err := c.doRequest(context.Background(), "/api/books/B1", &record)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}
