// Package subscription содержит бизнес-логику управления подписками:
// проверку входных данных, ограничение доступа владельцем и кеширование.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/analytics"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/query"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/validation"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// CacheTTL - время жизни подписки в кеше.
const CacheTTL = time.Hour

// Значения по умолчанию для необязательных полей при создании.
const (
	DefaultStatus        = models.StatusActive
	DefaultCategory      = analytics.DefaultCategory
	DefaultPaymentMethod = models.PaymentMethodOther
	DefaultAutoRenewal   = true
)

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (models.Subscription, error)
	GetSubscription(ctx context.Context, id, userID string) (models.Subscription, error)
	UpdateSubscription(ctx context.Context, id, userID string, patch models.SubscriptionPatch) (models.Subscription, error)
	DeleteSubscription(ctx context.Context, id, userID string) error
	FindSubscriptions(ctx context.Context, q models.SubscriptionQuery) ([]models.Subscription, int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует операции над подписками пользователя.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CacheKey возвращает ключ кеша подписки.
func CacheKey(id string) string {
	return "subscription:" + id
}

// Create проверяет данные, заполняет значения по умолчанию и сохраняет подписку.
func (s *Service) Create(ctx context.Context, p models.Principal, input map[string]any) (models.Subscription, error) {
	const op = "services.subscription.Create"

	res := validation.Validate(input, false)
	if err := res.Err(); err != nil {
		return models.Subscription{}, err
	}

	sub := res.Sanitized.Apply(models.Subscription{
		ID:            uuid.NewString(),
		UserID:        p.UserID,
		Status:        DefaultStatus,
		Category:      DefaultCategory,
		PaymentMethod: DefaultPaymentMethod,
		AutoRenewal:   DefaultAutoRenewal,
	})

	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new subscription", slog.String("id", created.ID))

	s.store(ctx, created)
	s.invalidate(ctx, analytics.CacheKey(p.UserID))
	return created, nil
}

// Get возвращает подписку владельца. Чужая и отсутствующая подписка
// неразличимы и дают storage.ErrNotFound.
func (s *Service) Get(ctx context.Context, p models.Principal, id string) (models.Subscription, error) {
	const op = "services.subscription.Get"

	if err := checkID(id); err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}

	key := CacheKey(id)
	var cached models.Subscription
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		if cached.UserID != p.UserID {
			return models.Subscription{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return cached, nil
	}

	sub, err := s.repo.GetSubscription(ctx, id, p.UserID)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	s.store(ctx, sub)
	return sub, nil
}

// Update применяет частичное обновление к подписке владельца.
func (s *Service) Update(ctx context.Context, p models.Principal, id string, input map[string]any) (models.Subscription, error) {
	const op = "services.subscription.Update"

	if err := checkID(id); err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}

	res := validation.Validate(input, true)
	if err := res.Err(); err != nil {
		return models.Subscription{}, err
	}

	updated, err := s.repo.UpdateSubscription(ctx, id, p.UserID, res.Sanitized)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated subscription", slog.String("id", id))

	s.store(ctx, updated)
	s.invalidate(ctx, analytics.CacheKey(p.UserID))
	return updated, nil
}

// Delete удаляет подписку владельца вместе с её транзакциями.
func (s *Service) Delete(ctx context.Context, p models.Principal, id string) error {
	const op = "services.subscription.Delete"

	if err := checkID(id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeleteSubscription(ctx, id, p.UserID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted subscription", slog.String("id", id))

	s.invalidate(ctx, CacheKey(id), analytics.CacheKey(p.UserID))
	return nil
}

// List разбирает параметры запроса и возвращает страницу подписок владельца.
func (s *Service) List(ctx context.Context, p models.Principal, raw url.Values) ([]models.Subscription, models.Pagination, error) {
	const op = "services.subscription.List"

	q := query.Plan(raw, p.UserID)
	subs, total, err := s.repo.FindSubscriptions(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return subs, models.NewPagination(q, total), nil
}

func (s *Service) store(ctx context.Context, sub models.Subscription) {
	key := CacheKey(sub.ID)
	if err := s.cache.Set(ctx, key, sub, CacheTTL); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("keys", keys), sl.Err(err))
	}
}

// checkID отсекает идентификаторы, которые не могут существовать в хранилище.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return storage.ErrNotFound
	}
	return nil
}
