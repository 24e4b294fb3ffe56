// Package create реализует HTTP-обработчик создания подписки.
//
// Тело запроса разбирается в map без привязки к структуре: проверку
// типов и значений выполняет сервис, возвращая все нарушения сразу.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Service описывает бизнес-логику создания подписки.
type Service interface {
	Create(ctx context.Context, p models.Principal, input map[string]any) (models.Subscription, error)
}

// Handler обрабатывает запросы на создание подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal missing in context")
		response.WriteUnauthorized(w, r, "unauthorized")
		return
	}

	var input map[string]any
	if err := render.DecodeJSON(r.Body, &input); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.WriteBadRequest(w, r, "invalid request body")
		return
	}

	sub, err := h.service.Create(r.Context(), principal, input)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("subscription created", slog.String("id", sub.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK("subscription created", sub))
}
