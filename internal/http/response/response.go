// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов об ошибках и сопоставления ошибок
// бизнес‑уровня с HTTP‑статусами.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
)

// StatusError значение статуса для ответа с ошибкой.
const StatusError = "Error"

// ErrorResponse — тело ответа с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// StatusFor сопоставляет ошибку бизнес‑уровня с HTTP‑статусом и
// сообщением для клиента. Для 5xx сообщение не раскрывает причину.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusBadRequest, apperr.ErrInvalidCredentials.Error()
	case errors.Is(err, apperr.ErrDuplicateAccount):
		return http.StatusBadRequest, apperr.ErrDuplicateAccount.Error()
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest, apperr.ErrInvalidInput.Error()
	case errors.Is(err, apperr.ErrAccountExpired):
		return http.StatusForbidden, apperr.ErrAccountExpired.Error()
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized, apperr.ErrUnauthenticated.Error()
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, apperr.ErrForbidden.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, apperr.ErrNotFound.Error()
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusInternalServerError, "failed to get completion"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// RenderError пишет ответ об ошибке со статусом из StatusFor.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}
