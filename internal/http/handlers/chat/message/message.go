// Package message реализует HTTP-обработчик отправки диалога в API генерации ответов.
//
// Сообщения передаются как есть и нигде не сохраняются.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	openai "github.com/sashabaranov/go-openai"

	"github.com/magabrotheeeer/chat-subscription/internal/http/response"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// Request — история диалога в порядке отправки.
// Кроме наличия роли сообщения не проверяются.
type Request struct {
	Messages []models.ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// Response содержит текст ответа модели.
type Response struct {
	Content string `json:"content"`
}

// Service описывает интерфейс проксирования чата.
type Service interface {
	Chat(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// Handler обрабатывает запросы к чату.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	validate := validator.New()
	validate.RegisterStructValidation(validateMessage, openai.ChatCompletionMessage{})
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// validateMessage требует роль у каждого сообщения.
func validateMessage(level validator.StructLevel) {
	msg := level.Current().Interface().(openai.ChatCompletionMessage)
	if msg.Role == "" {
		level.ReportError(msg.Role, "Role", "Role", "required", "")
	}
}

// ServeHTTP godoc
// @Summary Сообщение в чат
// @Description Передает историю диалога в API генерации ответов и возвращает текст ответа.
// @Tags Chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "История диалога"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустой диалог"
// @Failure 401 {object} response.ErrorResponse "Нет или недействителен токен"
// @Failure 403 {object} response.ErrorResponse "Срок доступа истёк"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка API генерации ответов"
// @Router /chat [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.message"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request"))
			return
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	content, err := h.service.Chat(r.Context(), req.Messages)
	if err != nil {
		log.Error("completion failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Debug("completion received", slog.Int("messages", len(req.Messages)))
	render.JSON(w, r, Response{Content: content})
}
