// Package auth содержит логику регистрации, входа и проверки токенов доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/password"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/validation"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

var (
	// ErrInvalidCredentials возвращается при неверном email или пароле.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken возвращается для отсутствующего, просроченного или поддельного токена.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserExists возвращается при повторной регистрации email.
	ErrUserExists = errors.New("user already exists")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	validate *validator.Validate
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		validate: validator.New(),
		log:      log,
	}
}

// Register создаёт пользователя с bcrypt-хешем пароля и сразу выдаёт токен.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (models.Session, error) {
	const op = "services.auth.Register"

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if errs := validation.StructErrors(s.validate, req); len(errs) > 0 {
		return models.Session{}, validation.NewError(errs...)
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUniqueConstraint) {
			return models.Session{}, fmt.Errorf("%s: %w: %w", op, ErrUserExists, err)
		}
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("registered user", slog.String("user_id", user.ID))

	return s.session(op, user)
}

// Login проверяет пароль пользователя и выдаёт токен доступа.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (models.Session, error) {
	const op = "services.auth.Login"

	req.Email = normalizeEmail(req.Email)
	if errs := validation.StructErrors(s.validate, req); len(errs) > 0 {
		return models.Session{}, validation.NewError(errs...)
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.session(op, user)
}

// ValidateToken проверяет JWT и возвращает владельца запроса.
func (s *Service) ValidateToken(_ context.Context, token string) (models.Principal, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(claims.UserID()); err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return models.Principal{UserID: claims.UserID(), Email: claims.Email}, nil
}

// Profile возвращает данные текущего пользователя.
func (s *Service) Profile(ctx context.Context, p models.Principal) (models.User, error) {
	const op = "services.auth.Profile"

	user, err := s.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *Service) session(op string, user models.User) (models.Session, error) {
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
