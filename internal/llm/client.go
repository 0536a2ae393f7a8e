// Package llm содержит клиент API генерации ответов.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/magabrotheeeer/chat-subscription/internal/config"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// Параметры каждого запроса к API.
const (
	Model     = openai.GPT3Dot5Turbo
	MaxTokens = 1000
)

// ErrEmptyCompletion возвращается, когда API не вернул ни одного варианта ответа.
var ErrEmptyCompletion = errors.New("completion has no choices")

// Client отправляет историю диалога в API и возвращает текст ответа.
type Client struct {
	api *openai.Client
}

// NewClient создаёт клиента по настройкам из конфига.
func NewClient(cfg config.OpenAI) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(clientCfg)}
}

// Complete передаёт сообщения как есть и возвращает текст первого варианта.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	const op = "llm.Complete"

	req := openai.ChatCompletionRequest{
		Model:     Model,
		MaxTokens: MaxTokens,
		Messages:  messages,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
