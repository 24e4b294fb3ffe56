// Package list реализует HTTP-обработчик постраничного списка подписок
// с фильтрацией, поиском и сортировкой.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Service описывает бизнес-логику получения списка подписок.
type Service interface {
	List(ctx context.Context, p models.Principal, raw url.Values) ([]models.Subscription, models.Pagination, error)
}

// Handler обрабатывает запросы списка подписок.
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

// ServeHTTP передаёт параметры запроса как есть: некорректные значения
// страницы и сортировки заменяются значениями по умолчанию.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"

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

	subs, page, err := h.service.List(r.Context(), principal, r.URL.Query())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Debug("subscriptions listed", slog.Int("count", len(subs)), slog.Int("total", page.Total))
	render.JSON(w, r, response.OKWithPagination("subscriptions retrieved", subs, page))
}
