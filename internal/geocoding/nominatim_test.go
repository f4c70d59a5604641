package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *countingObserver) ObserveGeocode(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, obs Observer) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:       srv.URL,
		UserAgent:     "rbar-test/1.0",
		RatePerSecond: 1000,
		Observer:      obs,
	})
}

func TestLookup(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"41.8781","lon":"-87.6298","display_name":"Chicago, Illinois"}]`))
	}, nil)

	place, found, err := c.Lookup(context.Background(), " Chicago ")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 41.8781, place.Point.Lat)
	assert.Equal(t, -87.6298, place.Point.Lng)
	assert.Equal(t, "Chicago, Illinois", place.DisplayName)

	require.NotNil(t, got)
	assert.Equal(t, "/search", got.URL.Path)
	assert.Equal(t, "Chicago", got.URL.Query().Get("q"))
	assert.Equal(t, "json", got.URL.Query().Get("format"))
	assert.Equal(t, "1", got.URL.Query().Get("limit"))
	assert.Equal(t, "us", got.URL.Query().Get("countrycodes"))
	assert.Equal(t, "rbar-test/1.0", got.Header.Get("User-Agent"))
}

func TestLookupAddress(t *testing.T) {
	var q string
	var hasCountry bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		hasCountry = r.URL.Query().Has("countrycodes")
		_, _ = w.Write([]byte(`[{"lat":"40.7","lon":"-74.0"}]`))
	}, nil)

	place, found, err := c.LookupAddress(context.Background(), "1 Main St", "Springfield", "IL")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 40.7, place.Point.Lat)
	assert.Equal(t, "1 Main St, Springfield, IL, USA", q)
	assert.False(t, hasCountry)
}

func TestLookupNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"empty result", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}},
		{"provider error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slow down", http.StatusTooManyRequests)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &countingObserver{}
			c := newTestClient(t, tt.handler, obs)

			place, found, err := c.Lookup(context.Background(), "nowhere")
			require.NoError(t, err)
			assert.False(t, found)
			assert.Equal(t, Place{}, place)
			assert.Equal(t, []string{"not_found"}, obs.outcomes)
		})
	}
}

func TestLookupErrors(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}, nil)
		_, _, err := c.Lookup(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrEmptyQuery)
		_, _, err = c.LookupAddress(context.Background(), "", " ", "")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("malformed body", func(t *testing.T) {
		obs := &countingObserver{}
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"oops":`))
		}, obs)
		_, found, err := c.Lookup(context.Background(), "x")
		assert.Error(t, err)
		assert.False(t, found)
		assert.Equal(t, []string{"error"}, obs.outcomes)
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"lat":"123","lon":"0"}]`))
		}, nil)
		_, _, err := c.Lookup(context.Background(), "x")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := c.Lookup(ctx, "x")
		assert.Error(t, err)
	})
}

func TestLookupIsThrottled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, RatePerSecond: 10})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, _, err := c.Lookup(context.Background(), "x")
		require.NoError(t, err)
	}
	// burst of one: the second and third calls each wait ~100ms
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
