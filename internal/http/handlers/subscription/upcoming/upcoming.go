// Package upcoming реализует HTTP-обработчик ближайших списаний по подпискам.
package upcoming

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Границы параметра days.
const (
	DefaultDays = 30
	MinDays     = 1
	MaxDays     = 365
)

// Service описывает бизнес-логику ближайших списаний.
type Service interface {
	Upcoming(ctx context.Context, userID string, days int) ([]models.Subscription, error)
}

// Handler обрабатывает запросы ближайших списаний.
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

// Result - данные ответа.
type Result struct {
	Days          int                   `json:"days"`
	Count         int                   `json:"count"`
	Subscriptions []models.Subscription `json:"subscriptions"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upcoming"

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

	days := DefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < MinDays || n > MaxDays {
			log.Info("invalid days parameter", slog.String("days", raw))
			response.WriteBadRequest(w, r, "days must be an integer between 1 and 365")
			return
		}
		days = n
	}

	subs, err := h.service.Upcoming(r.Context(), principal.UserID, days)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}

	render.JSON(w, r, response.OK("upcoming renewals retrieved", Result{
		Days:          days,
		Count:         len(subs),
		Subscriptions: subs,
	}))
}
