package transactioncreate

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/validation"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, p models.Principal, subscriptionID string, req models.DummyTransaction) (models.Transaction, error) {
	args := m.Called(ctx, p, subscriptionID, req)
	return args.Get(0).(models.Transaction), args.Error(1)
}

func TestTransactionCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := models.Principal{UserID: "user-1"}

	req := models.DummyTransaction{Amount: 15.99, Date: "2025-01-15", PaymentMethod: "credit_card"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "платёж записан",
			body: `{"amount":15.99,"date":"2025-01-15","paymentMethod":"credit_card"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, "sub-1", req).Return(models.Transaction{
					ID:             "tx-1",
					SubscriptionID: "sub-1",
					Amount:         decimal.RequireFromString("15.99"),
					Status:         models.TransactionStatusCompleted,
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"tx-1"`,
		},
		{
			name: "подписка другого пользователя",
			body: `{"amount":15.99,"date":"2025-01-15","paymentMethod":"credit_card"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, "sub-1", req).
					Return(models.Transaction{}, storage.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"NotFoundError"`,
		},
		{
			name: "невалидная сумма",
			body: `{"amount":0,"date":"2025-01-15","paymentMethod":"credit_card"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, "sub-1", mock.Anything).
					Return(models.Transaction{}, validation.NewError("amount must be greater than 0")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "amount must be greater than 0",
		},
		{
			name:           "пустое тело",
			body:           "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "request body is empty",
		},
		{
			name:           "сумма строкой",
			body:           `{"amount":"15.99"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "sub-1")
			r := httptest.NewRequest(http.MethodPost, "/api/subscriptions/sub-1/transactions", bytes.NewBufferString(tt.body))
			ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
			r = r.WithContext(middlewarectx.WithPrincipal(ctx, principal))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
