package upcoming

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

func (m *MockService) Upcoming(ctx context.Context, userID string, days int) ([]models.Subscription, error) {
	args := m.Called(ctx, userID, days)
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func TestUpcomingHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := models.Principal{UserID: "user-1"}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "значение по умолчанию",
			query: "",
			setupMock: func(m *MockService) {
				m.On("Upcoming", mock.Anything, "user-1", 30).
					Return([]models.Subscription{{ID: "sub-1"}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"days":30,"count":1`,
		},
		{
			name:  "явное количество дней",
			query: "?days=7",
			setupMock: func(m *MockService) {
				m.On("Upcoming", mock.Anything, "user-1", 7).
					Return([]models.Subscription(nil), nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"days":7,"count":0,"subscriptions":[]`,
		},
		{
			name:           "граница 365 допустима",
			query:          "?days=365",
			setupMock:      func(m *MockService) { m.On("Upcoming", mock.Anything, "user-1", 365).Return([]models.Subscription{}, nil).Once() },
			expectedStatus: http.StatusOK,
			expectedBody:   `"days":365`,
		},
		{
			name:           "ноль дней",
			query:          "?days=0",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "days must be an integer between 1 and 365",
		},
		{
			name:           "больше года",
			query:          "?days=366",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "days must be an integer between 1 and 365",
		},
		{
			name:           "не число",
			query:          "?days=week",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "days must be an integer between 1 and 365",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			r := httptest.NewRequest(http.MethodGet, "/api/subscriptions/upcoming"+tt.query, nil)
			r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), principal))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
