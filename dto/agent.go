package dto

// AgentRequest is the body of POST /agent. Text is only meaningful for the
// translate action; unknown actions are rejected by the dispatcher so the
// error can name the offending value.
type AgentRequest struct {
	UserID         string `json:"user_id" validate:"required"`
	Action         string `json:"action" validate:"required"`
	Text           string `json:"text,omitempty" validate:"required_if=Action translate"`
	TargetLanguage string `json:"target_language,omitempty"`
}

func (r AgentRequest) Validate() error {
	return GetValidator().Struct(r)
}

type PriceResponse struct {
	Coin     string  `json:"coin"`
	PriceUSD float64 `json:"price_usd"`
	Currency string  `json:"currency"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}
