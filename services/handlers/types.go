package handlers

import (
	"context"

	"github.com/NarendraTezu/AI-Agent-Assignment/dto"
)

type RateLimitServiceInterface interface {
	Allow(ctx context.Context, userID string) (bool, *dto.RateLimitInfo, error)
}

type PriceServiceInterface interface {
	GetPrice(ctx context.Context) (*dto.PriceResponse, error)
}

type TranslateServiceInterface interface {
	Translate(ctx context.Context, userID, text, targetLanguage string) (*dto.TranslateResponse, error)
}
