package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/password"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/validation"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyRegister
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantErr    error
		wantValErr bool
	}{
		{
			name: "успешная регистрация",
			req:  models.DummyRegister{Email: "  Test@Example.com ", Name: "Test", Password: "password123"},
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "test@example.com" &&
						u.Name == "Test" &&
						password.CompareHash(u.PasswordHash, "password123") == nil
				})).Return(models.User{ID: "user-1", Email: "test@example.com", Name: "Test"}, nil).Once()
				j.On("GenerateToken", "user-1", "test@example.com").Return("token", nil).Once()
			},
		},
		{
			name: "email уже занят",
			req:  models.DummyRegister{Email: "test@example.com", Name: "Test", Password: "password123"},
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(models.User{}, storage.ErrUniqueConstraint).Once()
			},
			wantErr: auth.ErrUserExists,
		},
		{
			name:       "невалидные данные",
			req:        models.DummyRegister{Email: "not-an-email", Name: "", Password: "short"},
			setupMocks: func(_ *UserRepoMock, _ *JwtMakerMock) {},
			wantValErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := new(JwtMakerMock)
			tt.setupMocks(repo, maker)
			svc := auth.NewService(repo, maker, newNoopLogger())

			session, err := svc.Register(context.Background(), tt.req)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, storage.ErrUniqueConstraint)
			case tt.wantValErr:
				var verr *validation.Error
				require.ErrorAs(t, err, &verr)
				assert.Len(t, verr.Details, 3)
			default:
				require.NoError(t, err)
				assert.Equal(t, "token", session.Token)
				assert.Equal(t, "user-1", session.User.ID)
			}
			repo.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("password123")
	require.NoError(t, err)
	user := models.User{ID: "user-1", Email: "test@example.com", PasswordHash: hash}

	tests := []struct {
		name       string
		req        models.DummyLogin
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name: "успешный вход",
			req:  models.DummyLogin{Email: "TEST@example.com", Password: "password123"},
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
				j.On("GenerateToken", "user-1", "test@example.com").Return("token", nil).Once()
			},
		},
		{
			name: "неверный пароль",
			req:  models.DummyLogin{Email: "test@example.com", Password: "wrong"},
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name: "пользователь не найден",
			req:  models.DummyLogin{Email: "ghost@example.com", Password: "password123"},
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(models.User{}, storage.ErrNotFound).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name: "ошибка генерации токена",
			req:  models.DummyLogin{Email: "test@example.com", Password: "password123"},
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
				j.On("GenerateToken", "user-1", "test@example.com").Return("", errors.New("sign failed")).Once()
			},
			wantErr: errors.New("sign failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := new(JwtMakerMock)
			tt.setupMocks(repo, maker)
			svc := auth.NewService(repo, maker, newNoopLogger())

			session, err := svc.Login(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token", session.Token)
			repo.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	userID := uuid.NewString()

	tests := []struct {
		name       string
		setupMocks func(j *JwtMakerMock)
		want       models.Principal
		wantErr    bool
	}{
		{
			name: "валидный токен",
			setupMocks: func(j *JwtMakerMock) {
				claims := &customjwt.CustomClaims{Email: "user@example.com"}
				claims.Subject = userID
				j.On("ParseToken", "token").Return(claims, nil).Once()
			},
			want: models.Principal{UserID: userID, Email: "user@example.com"},
		},
		{
			name: "ошибка разбора",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(nil, errors.New("expired")).Once()
			},
			wantErr: true,
		},
		{
			name: "subject не uuid",
			setupMocks: func(j *JwtMakerMock) {
				claims := &customjwt.CustomClaims{}
				claims.Subject = "admin"
				j.On("ParseToken", "token").Return(claims, nil).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maker := new(JwtMakerMock)
			tt.setupMocks(maker)
			svc := auth.NewService(new(UserRepoMock), maker, newNoopLogger())

			got, err := svc.ValidateToken(context.Background(), "token")
			if tt.wantErr {
				assert.ErrorIs(t, err, auth.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Profile(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUserByID", mock.Anything, "user-1").Return(models.User{ID: "user-1", Name: "Test"}, nil).Once()

	svc := auth.NewService(repo, new(JwtMakerMock), newNoopLogger())
	user, err := svc.Profile(context.Background(), models.Principal{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "Test", user.Name)
}
