package main

import (
	"github.com/NarendraTezu/AI-Agent-Assignment/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title AI Agent API
// @version 1.0
// @description Crypto price lookups and English translations behind a rate-limited agent endpoint.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.RedisService{},
		&services.MonitoringService{},
		&services.RateLimitService{},
		&services.ChatHistoryService{},
		&services.PriceService{},
		&services.TranslateService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
