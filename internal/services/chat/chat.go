// Package chat передаёт диалог пользователя во внешний API генерации ответов.
package chat

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
	"github.com/magabrotheeeer/chat-subscription/internal/metrics"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// Completer — клиент API генерации ответов.
type Completer interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// ChatService проксирует сообщения без сохранения и повторных попыток.
type ChatService struct {
	llm     Completer
	metrics *metrics.Metrics
}

// NewChatService создает новый экземпляр ChatService.
func NewChatService(llm Completer, m *metrics.Metrics) *ChatService {
	return &ChatService{
		llm:     llm,
		metrics: m,
	}
}

// Chat возвращает текст ответа. Любая ошибка API оборачивается в apperr.ErrUpstream.
func (s *ChatService) Chat(ctx context.Context, messages []models.ChatMessage) (content string, err error) {
	const op = "services.chat.Chat"
	defer func() { s.metrics.ObserveChat(err) }()

	content, err = s.llm.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, apperr.ErrUpstream, err)
	}
	return content, nil
}
