package shared

const (
	UserID = "user_id"

	ActionPrice     = "price"
	ActionTranslate = "translate"

	RateLimitKeyPrefix = "rate_limit"
	PriceKeyPrefix     = "price"
	HistoryKeyPrefix   = "history"

	HistoryUserPrefix      = "User: "
	HistoryAssistantPrefix = "AI: "
)
