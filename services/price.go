package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/NarendraTezu/AI-Agent-Assignment/dto"
	"github.com/NarendraTezu/AI-Agent-Assignment/shared"
)

// PriceService serves the current USD price of a configured coin from
// CoinGecko with a cache-aside read through the shared Redis store. A hit
// within the TTL never touches the upstream; a miss fetches, stores with the
// TTL and returns. Upstream failures surface as errors and never overwrite
// the cache, so an expired value is never served stale.
type PriceService struct {
	appContext.DefaultService

	store      KVStore
	httpClient *http.Client
	limiter    *rate.Limiter

	apiURL   string
	coinID   string
	cacheTTL time.Duration
}

const PRICE_SVC = "price_svc"

const (
	defaultCoinGeckoURL  = "https://api.coingecko.com/api/v3"
	defaultCoinID        = "bitcoin"
	defaultPriceCacheTTL = 30 * time.Second

	// CoinGecko's free tier allows roughly 30 calls/minute; stay under it
	// even when the cache is cold across many users.
	coinGeckoRateLimit = rate.Limit(0.5)
)

func (svc PriceService) Id() string {
	return PRICE_SVC
}

func (svc *PriceService) Configure(ctx *appContext.Context) error {
	svc.httpClient = &http.Client{
		Timeout: 5 * time.Second,
	}
	svc.limiter = rate.NewLimiter(coinGeckoRateLimit, 2)

	svc.apiURL = os.Getenv("COINGECKO_API_URL")
	if svc.apiURL == "" {
		svc.apiURL = defaultCoinGeckoURL
	}

	svc.coinID = os.Getenv("COINGECKO_COIN_ID")
	if svc.coinID == "" {
		svc.coinID = defaultCoinID
	}

	svc.cacheTTL = defaultPriceCacheTTL
	if ttlStr := os.Getenv("PRICE_CACHE_TTL_SECONDS"); ttlStr != "" {
		seconds, err := strconv.Atoi(ttlStr)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid PRICE_CACHE_TTL_SECONDS: %s", ttlStr)
		}
		svc.cacheTTL = time.Duration(seconds) * time.Second
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *PriceService) Start() error {
	svc.store = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func (svc *PriceService) GetPrice(ctx context.Context) (*dto.PriceResponse, error) {
	cacheKey := fmt.Sprintf("%s:%s:usd", shared.PriceKeyPrefix, svc.coinID)

	if cached, err := svc.store.Get(ctx, cacheKey); err == nil && cached != "" {
		var resp dto.PriceResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			priceCacheHitsTotal.Inc()
			log.WithField("coin", svc.coinID).Debug("Price cache hit")
			return &resp, nil
		} else {
			log.WithError(err).WithField("coin", svc.coinID).Warn("Discarding malformed cached price")
		}
	}

	priceCacheMissesTotal.Inc()

	resp, err := svc.fetchPrice(ctx)
	if err != nil {
		return nil, err
	}

	if err := svc.store.Set(ctx, cacheKey, resp, svc.cacheTTL); err != nil {
		// A failed cache write only costs an extra upstream call later.
		log.WithError(err).WithField("coin", svc.coinID).Warn("Failed to cache price")
	}

	return resp, nil
}

func (svc *PriceService) fetchPrice(ctx context.Context) (*dto.PriceResponse, error) {
	if err := svc.limiter.Wait(ctx); err != nil {
		return nil, shared.NewUpstreamError(err, "Price service unavailable")
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", svc.apiURL, svc.coinID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, shared.NewUpstreamError(err, "Price service unavailable")
	}

	upstreamCallsTotal.WithLabelValues("coingecko").Inc()

	res, err := svc.httpClient.Do(req)
	if err != nil {
		upstreamFailuresTotal.WithLabelValues("coingecko").Inc()
		log.WithError(err).WithField("coin", svc.coinID).Error("Failed to fetch price")
		return nil, shared.NewUpstreamError(err, "Price service unavailable")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		upstreamFailuresTotal.WithLabelValues("coingecko").Inc()
		log.WithFields(log.Fields{
			"status": res.StatusCode,
			"coin":   svc.coinID,
		}).Error("Price API returned non-200 status")
		return nil, shared.NewUpstreamError(fmt.Errorf("price API returned status %d", res.StatusCode), "Price service unavailable")
	}

	var result map[string]map[string]float64
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		upstreamFailuresTotal.WithLabelValues("coingecko").Inc()
		log.WithError(err).WithField("coin", svc.coinID).Error("Failed to decode price response")
		return nil, shared.NewUpstreamError(err, "Price service unavailable")
	}

	price, ok := result[svc.coinID]["usd"]
	if !ok {
		upstreamFailuresTotal.WithLabelValues("coingecko").Inc()
		return nil, shared.NewUpstreamError(fmt.Errorf("price for %s not found in response", svc.coinID), "Price service unavailable")
	}

	return &dto.PriceResponse{
		Coin:     svc.coinID,
		PriceUSD: price,
		Currency: "usd",
	}, nil
}
