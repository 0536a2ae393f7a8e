package models

import openai "github.com/sashabaranov/go-openai"

// ChatMessage — одно сообщение диалога, который целиком хранит клиент.
// Это формат API генерации ответов, поэтому сообщение уходит туда без изменений:
// name, content в виде массива частей и прочие поля сохраняются.
type ChatMessage = openai.ChatCompletionMessage
