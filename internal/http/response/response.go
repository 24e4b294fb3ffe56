// Package response содержит унифицированные JSON-ответы HTTP-обработчиков
// и отображение ошибок сервисов на HTTP-статусы.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/validation"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// Виды ошибок в поле error ответа.
const (
	KindValidation = "ValidationError"
	KindNotFound   = "NotFoundError"
	KindConflict   = "ConflictError"
	KindAuth       = "AuthError"
	KindRateLimit  = "RateLimitError"
	KindInternal   = "InternalError"
)

// Response описывает успешный ответ.
type Response struct {
	Message    string             `json:"message"`
	Data       any                `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// ErrorResponse описывает ответ с ошибкой. Details перечисляет все
// нарушения для ошибок валидации.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// OK возвращает успешный Response с данными.
func OK(msg string, data any) Response {
	return Response{Message: msg, Data: data}
}

// OKWithPagination возвращает успешный Response со страницей данных.
func OKWithPagination(msg string, data any, p models.Pagination) Response {
	return Response{Message: msg, Data: data, Pagination: &p}
}

// Error возвращает ErrorResponse заданного вида.
func Error(kind, msg string) ErrorResponse {
	return ErrorResponse{Error: kind, Message: msg}
}

// ValidationError возвращает ErrorResponse со списком нарушений.
func ValidationError(details []string) ErrorResponse {
	return ErrorResponse{Error: KindValidation, Message: "validation failed", Details: details}
}

// Classify возвращает HTTP-статус и тело ответа для ошибки сервиса.
// Внутренние ошибки не раскрываются клиенту.
func Classify(err error) (int, ErrorResponse) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ValidationError(verr.Details)
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, Error(KindNotFound, "resource not found")
	case errors.Is(err, auth.ErrUserExists), errors.Is(err, storage.ErrUniqueConstraint):
		return http.StatusConflict, Error(KindConflict, "resource already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, Error(KindAuth, "invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, Error(KindAuth, "invalid or expired token")
	default:
		return http.StatusInternalServerError, Error(KindInternal, "internal server error")
	}
}

// WriteError пишет ответ для ошибки сервиса. Внутренние ошибки логируются
// на уровне Error, клиентские на уровне Info.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, body := Classify(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

// WriteBadRequest пишет ответ для тела запроса, которое не удалось разобрать.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ValidationError([]string{msg}))
}

// WriteUnauthorized пишет ответ для запроса без аутентификации.
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, Error(KindAuth, msg))
}
