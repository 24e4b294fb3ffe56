package analytics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Snapshot(ctx context.Context, userID string) (models.AnalyticsSnapshot, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.AnalyticsSnapshot), args.Error(1)
}

func TestAnalyticsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := models.Principal{UserID: "user-1"}

	t.Run("снимок аналитики", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("Snapshot", mock.Anything, "user-1").Return(models.AnalyticsSnapshot{
			Overview: models.Overview{
				TotalSubscriptions:    2,
				ActiveSubscriptions:   1,
				InactiveSubscriptions: 1,
				MonthlyTotal:          15.99,
				YearlyTotal:           191.88,
			},
			CategoryBreakdown: []models.CategoryTotal{{Category: "entertainment", Count: 1, MonthlyTotal: 15.99}},
		}, nil).Once()

		r := httptest.NewRequest(http.MethodGet, "/api/subscriptions/analytics", nil)
		r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), principal))
		w := httptest.NewRecorder()

		New(logger, mockService).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `"monthlyTotal":15.99`)
		assert.Contains(t, body, `"yearlyTotal":191.88`)
		assert.Contains(t, body, `"category":"entertainment"`)
		mockService.AssertExpectations(t)
	})

	t.Run("ошибка сервиса", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("Snapshot", mock.Anything, "user-1").Return(models.AnalyticsSnapshot{}, assert.AnError).Once()

		r := httptest.NewRequest(http.MethodGet, "/api/subscriptions/analytics", nil)
		r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), principal))
		w := httptest.NewRecorder()

		New(logger, mockService).ServeHTTP(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
	})
}
