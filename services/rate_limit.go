package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/NarendraTezu/AI-Agent-Assignment/dto"
	"github.com/NarendraTezu/AI-Agent-Assignment/shared"
)

// RateLimitService enforces a fixed-window per-user request budget backed by
// the shared Redis counter store. The increment-and-check runs as a single
// atomic store operation, so concurrent requests for the same user cannot
// both slip under the threshold.
//
// The limiter fails closed: if the store is unreachable the request is
// rejected with a service-unavailable error instead of bypassing the limit.
type RateLimitService struct {
	appContext.DefaultService

	store  KVStore
	max    int
	window time.Duration

	now func() time.Time
}

const RATE_LIMIT_SVC = "rate_limit_svc"

const (
	defaultRateLimitMax    = 5
	defaultRateLimitWindow = 60 * time.Second
)

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.max = defaultRateLimitMax
	if maxStr := os.Getenv("RATE_LIMIT_MAX"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil || max <= 0 {
			return fmt.Errorf("invalid RATE_LIMIT_MAX: %s", maxStr)
		}
		svc.max = max
	}

	svc.window = defaultRateLimitWindow
	if windowStr := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); windowStr != "" {
		seconds, err := strconv.Atoi(windowStr)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid RATE_LIMIT_WINDOW_SECONDS: %s", windowStr)
		}
		svc.window = time.Duration(seconds) * time.Second
	}

	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.store = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Allow reports whether userID may make another request in the current
// window. The counter key carries the window index, so it expires on its own
// at the window boundary and is never explicitly deleted.
func (svc *RateLimitService) Allow(ctx context.Context, userID string) (bool, *dto.RateLimitInfo, error) {
	now := svc.now()
	windowIndex := now.Unix() / int64(svc.window.Seconds())
	key := fmt.Sprintf("%s:%s:%d", shared.RateLimitKeyPrefix, userID, windowIndex)

	count, err := svc.store.IncrementWithExpiry(ctx, key, svc.window)
	if err != nil {
		log.WithError(err).WithField(shared.UserID, userID).Error("Rate limit store unreachable")
		return false, nil, shared.NewStoreUnavailableError(err)
	}

	resetTime := time.Unix((windowIndex+1)*int64(svc.window.Seconds()), 0)

	if count > int64(svc.max) {
		rateLimitDenialsTotal.Inc()
		log.WithFields(log.Fields{
			shared.UserID: userID,
			"count":       count,
			"limit":       svc.max,
		}).Warn("Rate limit exceeded")

		return false, &dto.RateLimitInfo{
			Allowed:    false,
			Remaining:  0,
			ResetTime:  &resetTime,
			RetryAfter: int(resetTime.Sub(now).Seconds()) + 1,
		}, nil
	}

	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: svc.max - int(count),
		ResetTime: &resetTime,
	}, nil
}
