// Package update реализует HTTP-обработчик частичного обновления подписки.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Service описывает бизнес-логику обновления подписки.
type Service interface {
	Update(ctx context.Context, p models.Principal, id string, input map[string]any) (models.Subscription, error)
}

// Handler обрабатывает запросы на обновление подписки.
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

// ServeHTTP применяет переданные поля к подписке. Отсутствующие поля не меняются.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"

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

	id := chi.URLParam(r, "id")
	sub, err := h.service.Update(r.Context(), principal, id, input)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("subscription updated", slog.String("id", id))
	render.JSON(w, r, response.OK("subscription updated", sub))
}
