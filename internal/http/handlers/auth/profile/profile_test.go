package profile

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
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Profile(ctx context.Context, p models.Principal) (models.User, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.User), args.Error(1)
}

func TestProfileHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := models.Principal{UserID: "user-1", Email: "user@example.com"}

	tests := []struct {
		name           string
		withPrincipal  bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "профиль пользователя",
			withPrincipal: true,
			setupMock: func(m *MockService) {
				m.On("Profile", mock.Anything, principal).
					Return(models.User{ID: "user-1", Email: "user@example.com", Name: "User"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"User"`,
		},
		{
			name:           "без аутентификации",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"AuthError"`,
		},
		{
			name:          "пользователь удалён",
			withPrincipal: true,
			setupMock: func(m *MockService) {
				m.On("Profile", mock.Anything, principal).Return(models.User{}, storage.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"NotFoundError"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			r := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
			if tt.withPrincipal {
				r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), principal))
			}
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
