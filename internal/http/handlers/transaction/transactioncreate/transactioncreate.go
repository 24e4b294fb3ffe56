// Package transactioncreate реализует HTTP-обработчик записи платежа по подписке.
package transactioncreate

import (
	"context"
	"errors"
	"io"
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

// Service описывает бизнес-логику записи платежа.
type Service interface {
	Create(ctx context.Context, p models.Principal, subscriptionID string, req models.DummyTransaction) (models.Transaction, error)
}

// Handler обрабатывает запросы на запись платежа.
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
	const op = "handlers.transaction.create"

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

	var req models.DummyTransaction
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			log.Info("request body is empty")
			response.WriteBadRequest(w, r, "request body is empty")
			return
		}
		log.Info("failed to decode request body", sl.Err(err))
		response.WriteBadRequest(w, r, "invalid request body")
		return
	}

	subscriptionID := chi.URLParam(r, "id")
	tx, err := h.service.Create(r.Context(), principal, subscriptionID, req)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("transaction recorded", slog.String("id", tx.ID), slog.String("subscription_id", subscriptionID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK("transaction recorded", tx))
}
