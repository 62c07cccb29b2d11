package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/NarendraTezu/AI-Agent-Assignment/shared"
)

func newTestPriceService(upstreamURL string, store KVStore) *PriceService {
	return &PriceService{
		store:      store,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		apiURL:     upstreamURL,
		coinID:     "bitcoin",
		cacheTTL:   30 * time.Second,
	}
}

func TestGetPriceCacheMissThenHit(t *testing.T) {
	var upstreamCalls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamCalls, 1)
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":64250.12}}`))
	}))
	defer upstream.Close()

	store := newFakeKVStore()
	svc := newTestPriceService(upstream.URL, store)
	ctx := context.Background()

	first, err := svc.GetPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, 64250.12, first.PriceUSD)
	assert.Equal(t, "usd", first.Currency)
	assert.Equal(t, "bitcoin", first.Coin)

	second, err := svc.GetPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.PriceUSD, second.PriceUSD)

	assert.Equal(t, int64(1), atomic.LoadInt64(&upstreamCalls), "second read within TTL must be served from cache")
}

func TestGetPriceRefetchesAfterTTL(t *testing.T) {
	var upstreamCalls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamCalls, 1)
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":64250.12}}`))
	}))
	defer upstream.Close()

	store := newFakeKVStore()
	svc := newTestPriceService(upstream.URL, store)
	ctx := context.Background()

	_, err := svc.GetPrice(ctx)
	require.NoError(t, err)

	// Expire the cached value.
	store.now = func() time.Time { return time.Now().Add(31 * time.Second) }

	_, err = svc.GetPrice(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&upstreamCalls))
}

func TestGetPriceUpstreamErrorNotCached(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	store := newFakeKVStore()
	svc := newTestPriceService(upstream.URL, store)

	_, err := svc.GetPrice(context.Background())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.StatusCode)

	assert.Equal(t, 0, store.setCalls, "failed fetches must not write to the cache")
}

func TestGetPriceMalformedBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer upstream.Close()

	svc := newTestPriceService(upstream.URL, newFakeKVStore())

	_, err := svc.GetPrice(context.Background())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.StatusCode)
}

func TestGetPriceCoinMissingFromResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	svc := newTestPriceService(upstream.URL, newFakeKVStore())

	_, err := svc.GetPrice(context.Background())
	require.Error(t, err)
}
