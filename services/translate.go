package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/NarendraTezu/AI-Agent-Assignment/dto"
	"github.com/NarendraTezu/AI-Agent-Assignment/shared"
)

// TranslateService forwards text to the Together AI chat-completions API
// under a fixed system instruction that pins responses to English. The
// model's output is returned verbatim; English-only is a prompt-level
// contract, not validated on the way back.
type TranslateService struct {
	appContext.DefaultService

	historySvc *ChatHistoryService
	httpClient *http.Client

	apiURL string
	apiKey string
	model  string
}

const TRANSLATE_SVC = "translate_svc"

const (
	defaultTogetherURL   = "https://api.together.xyz/v1"
	defaultTogetherModel = "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo-128K"

	systemInstruction = "Respond only in English. Translate the following user message into English and retain conversation context."
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (svc TranslateService) Id() string {
	return TRANSLATE_SVC
}

func (svc *TranslateService) Configure(ctx *appContext.Context) error {
	svc.apiKey = os.Getenv("TOGETHER_API_KEY")
	if svc.apiKey == "" {
		return fmt.Errorf("TOGETHER_API_KEY is not set in the environment")
	}

	svc.apiURL = os.Getenv("TOGETHER_API_URL")
	if svc.apiURL == "" {
		svc.apiURL = defaultTogetherURL
	}

	svc.model = os.Getenv("TOGETHER_MODEL")
	if svc.model == "" {
		svc.model = defaultTogetherModel
	}

	// Model latency dominates here, unlike the price lookup.
	svc.httpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *TranslateService) Start() error {
	svc.historySvc = svc.Service(CHAT_HISTORY_SVC).(*ChatHistoryService)
	return nil
}

// Translate sends text plus the user's recent conversation turns to the
// model and returns the raw completion. targetLanguage is only a hint woven
// into the user message; the system instruction keeps output in English.
func (svc *TranslateService) Translate(ctx context.Context, userID, text, targetLanguage string) (*dto.TranslateResponse, error) {
	messages := []chatMessage{
		{Role: "system", Content: systemInstruction},
	}

	history, err := svc.historySvc.GetHistory(ctx, userID)
	if err != nil {
		log.WithError(err).WithField(shared.UserID, userID).Warn("Proceeding without chat history")
	}
	for _, msg := range history {
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	userContent := text
	if targetLanguage != "" {
		userContent = fmt.Sprintf("%s\n\n(source language hint: %s)", text, targetLanguage)
	}
	messages = append(messages, chatMessage{Role: "user", Content: userContent})

	translated, err := svc.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	if err := svc.historySvc.AppendTurn(ctx, userID, text, translated); err != nil {
		log.WithError(err).WithField(shared.UserID, userID).Warn("Failed to persist chat history")
	}

	return &dto.TranslateResponse{TranslatedText: translated}, nil
}

func (svc *TranslateService) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:    svc.model,
		Messages: messages,
	})
	if err != nil {
		return "", shared.NewUpstreamError(err, "Translation service unavailable")
	}

	url := fmt.Sprintf("%s/chat/completions", svc.apiURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", shared.NewUpstreamError(err, "Translation service unavailable")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+svc.apiKey)

	upstreamCallsTotal.WithLabelValues("together").Inc()

	res, err := svc.httpClient.Do(req)
	if err != nil {
		upstreamFailuresTotal.WithLabelValues("together").Inc()
		log.WithError(err).Error("Failed to call completion API")
		return "", shared.NewUpstreamError(err, "Translation service unavailable")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		upstreamFailuresTotal.WithLabelValues("together").Inc()
		log.WithField("status", res.StatusCode).Error("Completion API returned non-200 status")
		return "", shared.NewUpstreamError(fmt.Errorf("completion API returned status %d", res.StatusCode), "Translation service unavailable")
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&completion); err != nil {
		upstreamFailuresTotal.WithLabelValues("together").Inc()
		log.WithError(err).Error("Failed to decode completion response")
		return "", shared.NewUpstreamError(err, "Translation service unavailable")
	}

	if completion.Error != nil {
		upstreamFailuresTotal.WithLabelValues("together").Inc()
		return "", shared.NewUpstreamError(fmt.Errorf("completion API error: %s", completion.Error.Message), "Translation service unavailable")
	}

	if len(completion.Choices) == 0 {
		upstreamFailuresTotal.WithLabelValues("together").Inc()
		return "", shared.NewUpstreamError(fmt.Errorf("completion response contained no choices"), "Translation service unavailable")
	}

	return completion.Choices[0].Message.Content, nil
}
