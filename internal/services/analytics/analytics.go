package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Repository описывает чтения, необходимые для аналитики.
type Repository interface {
	FindAllSubscriptionsForUser(ctx context.Context, userID string) ([]models.Subscription, error)
	SumCompletedTransactionAmounts(ctx context.Context, userID string) (decimal.Decimal, error)
	FindUpcomingActiveSubscriptions(ctx context.Context, userID string, from, to time.Time) ([]models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service собирает данные из хранилища и передаёт их в Aggregate.
type Service struct {
	repo     Repository
	cache    Cache
	log      *slog.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService создаёт сервис аналитики. cacheTTL <= 0 отключает кэш.
func NewService(repo Repository, cache Cache, log *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		log:      log,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CacheKey возвращает ключ кэша снимка аналитики пользователя.
func CacheKey(userID string) string {
	return "analytics:" + userID
}

// Snapshot возвращает аналитику пользователя. Список подписок и сумма
// транзакций читаются параллельно.
func (s *Service) Snapshot(ctx context.Context, userID string) (models.AnalyticsSnapshot, error) {
	const op = "services.analytics.Snapshot"

	key := CacheKey(userID)
	if s.cacheTTL > 0 {
		var cached models.AnalyticsSnapshot
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read analytics from cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	var (
		subs  []models.Subscription
		spent decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subs, err = s.repo.FindAllSubscriptionsForUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		spent, err = s.repo.SumCompletedTransactionAmounts(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.AnalyticsSnapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	snapshot := Aggregate(subs, spent, s.now())

	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, snapshot, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache analytics", slog.String("key", key), sl.Err(err))
		}
	}
	return snapshot, nil
}

// Upcoming возвращает активные подписки со списанием в ближайшие days дней.
func (s *Service) Upcoming(ctx context.Context, userID string, days int) ([]models.Subscription, error) {
	const op = "services.analytics.Upcoming"
	now := s.now()
	subs, err := s.repo.FindUpcomingActiveSubscriptions(ctx, userID, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}
