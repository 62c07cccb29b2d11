package services

import (
	"context"
	"fmt"
	"strings"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/NarendraTezu/AI-Agent-Assignment/shared"
)

// ChatHistoryService keeps the last few conversation turns per user in a
// Redis list so the translator can hand the model prior context. History is
// best effort: a read or write failure degrades the conversation, it never
// fails the request.
type ChatHistoryService struct {
	appContext.DefaultService

	store ListStore

	// maxMessages counts individual list entries, user and assistant lines
	// alike.
	maxMessages int64
}

const CHAT_HISTORY_SVC = "chat_history_svc"

const defaultMaxHistoryMessages = 10

type ChatMessage struct {
	Role    string
	Content string
}

func (svc ChatHistoryService) Id() string {
	return CHAT_HISTORY_SVC
}

func (svc *ChatHistoryService) Configure(ctx *appContext.Context) error {
	svc.maxMessages = defaultMaxHistoryMessages
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChatHistoryService) Start() error {
	svc.store = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func (svc *ChatHistoryService) historyKey(userID string) string {
	return fmt.Sprintf("%s:%s", shared.HistoryKeyPrefix, userID)
}

// GetHistory returns the stored turns for userID, oldest first. Entries that
// don't carry a recognizable role prefix are skipped.
func (svc *ChatHistoryService) GetHistory(ctx context.Context, userID string) ([]ChatMessage, error) {
	entries, err := svc.store.ListRange(ctx, svc.historyKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	messages := make([]ChatMessage, 0, len(entries))
	for _, entry := range entries {
		switch {
		case strings.HasPrefix(entry, shared.HistoryUserPrefix):
			messages = append(messages, ChatMessage{
				Role:    "user",
				Content: strings.TrimPrefix(entry, shared.HistoryUserPrefix),
			})
		case strings.HasPrefix(entry, shared.HistoryAssistantPrefix):
			messages = append(messages, ChatMessage{
				Role:    "assistant",
				Content: strings.TrimPrefix(entry, shared.HistoryAssistantPrefix),
			})
		default:
			log.WithField(shared.UserID, userID).Warn("Skipping malformed chat history entry")
		}
	}

	return messages, nil
}

// AppendTurn records one user message and the assistant's reply, trimming the
// list to the configured size in the same round trip.
func (svc *ChatHistoryService) AppendTurn(ctx context.Context, userID, userMessage, assistantResponse string) error {
	err := svc.store.ListAppendTrim(ctx, svc.historyKey(userID), svc.maxMessages,
		shared.HistoryUserPrefix+userMessage,
		shared.HistoryAssistantPrefix+assistantResponse,
	)
	if err != nil {
		return fmt.Errorf("failed to append chat history: %w", err)
	}
	return nil
}
