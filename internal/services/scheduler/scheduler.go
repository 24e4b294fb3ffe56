// Package scheduler переносит просроченные даты списания на следующий
// период и публикует события о продлении и истечении подписок.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/billing"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/analytics"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
)

// Repository описывает методы хранилища, нужные планировщику.
type Repository interface {
	FindOverdueActiveSubscriptions(ctx context.Context, now time.Time) ([]models.Subscription, error)
	UpdateNextBillingDate(ctx context.Context, id string, next time.Time) error
	UpdateSubscriptionStatus(ctx context.Context, id string, status models.Status) error
}

// Publisher отправляет события в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Invalidator удаляет устаревшие ключи кеша.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Event - сообщение о продлении или истечении подписки.
type Event struct {
	SubscriptionID      string          `json:"subscriptionId"`
	UserID              string          `json:"userId"`
	ServiceName         string          `json:"serviceName"`
	Cost                decimal.Decimal `json:"cost"`
	BillingCycle        string          `json:"billingCycle"`
	PreviousBillingDate time.Time       `json:"previousBillingDate"`
	NextBillingDate     time.Time       `json:"nextBillingDate"`
	Periods             int             `json:"periods,omitempty"`
	Status              models.Status   `json:"status"`
}

// Summary - итог одного прохода планировщика.
type Summary struct {
	Renewed int
	Expired int
	Failed  int
}

// Service выполняет продление подписок по расписанию.
type Service struct {
	repo  Repository
	pub   Publisher
	cache Invalidator
	log   *slog.Logger
	now   func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, pub Publisher, cache Invalidator, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		pub:   pub,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Run выполняет проход сразу и затем каждые interval до отмены ctx.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.runOnceLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("renewal scheduler stopped")
			return
		case <-ticker.C:
			s.runOnceLogged(ctx)
		}
	}
}

func (s *Service) runOnceLogged(ctx context.Context) {
	summary, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error("renewal pass failed", sl.Err(err))
		return
	}
	s.log.Info("renewal pass finished",
		slog.Int("renewed", summary.Renewed),
		slog.Int("expired", summary.Expired),
		slog.Int("failed", summary.Failed),
	)
}

// RunOnce обрабатывает все активные подписки с датой списания в прошлом.
// Ошибка одной подписки не прерывает проход.
func (s *Service) RunOnce(ctx context.Context) (Summary, error) {
	const op = "services.scheduler.RunOnce"

	now := s.now()
	subs, err := s.repo.FindOverdueActiveSubscriptions(ctx, now)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(subs) == 0 {
		s.log.Info("no overdue subscriptions found")
		return Summary{}, nil
	}
	s.log.Info("found overdue subscriptions", slog.Int("count", len(subs)))

	var summary Summary
	touched := make(map[string]struct{})
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("%s: %w", op, err)
		}

		log := s.log.With(slog.String("subscription_id", sub.ID))
		var perr error
		if sub.AutoRenewal {
			perr = s.renew(ctx, sub, now)
			if perr == nil {
				summary.Renewed++
			}
		} else {
			perr = s.expire(ctx, sub)
			if perr == nil {
				summary.Expired++
			}
		}
		if perr != nil {
			summary.Failed++
			log.Error("failed to process overdue subscription", sl.Err(perr))
			continue
		}
		touched[analytics.CacheKey(sub.UserID)] = struct{}{}
		touched[subscription.CacheKey(sub.ID)] = struct{}{}
	}

	s.invalidate(ctx, touched)
	return summary, nil
}

func (s *Service) renew(ctx context.Context, sub models.Subscription, now time.Time) error {
	next, periods, err := billing.AdvancePast(sub.NextBillingDate, sub.BillingCycle, now)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateNextBillingDate(ctx, sub.ID, next); err != nil {
		return err
	}
	s.publish(ctx, rabbitmq.RoutingKeyRenewed, Event{
		SubscriptionID:      sub.ID,
		UserID:              sub.UserID,
		ServiceName:         sub.ServiceName,
		Cost:                sub.Cost,
		BillingCycle:        string(sub.BillingCycle),
		PreviousBillingDate: sub.NextBillingDate,
		NextBillingDate:     next,
		Periods:             periods,
		Status:              sub.Status,
	})
	return nil
}

func (s *Service) expire(ctx context.Context, sub models.Subscription) error {
	if err := s.repo.UpdateSubscriptionStatus(ctx, sub.ID, models.StatusExpired); err != nil {
		return err
	}
	s.publish(ctx, rabbitmq.RoutingKeyExpired, Event{
		SubscriptionID:      sub.ID,
		UserID:              sub.UserID,
		ServiceName:         sub.ServiceName,
		Cost:                sub.Cost,
		BillingCycle:        string(sub.BillingCycle),
		PreviousBillingDate: sub.NextBillingDate,
		NextBillingDate:     sub.NextBillingDate,
		Status:              models.StatusExpired,
	})
	return nil
}

// publish не возвращает ошибку: состояние в базе уже изменено.
func (s *Service) publish(ctx context.Context, routingKey string, event Event) {
	if err := s.pub.Publish(ctx, routingKey, event); err != nil {
		s.log.Error("failed to publish message",
			slog.String("routing_key", routingKey),
			slog.String("subscription_id", event.SubscriptionID),
			sl.Err(err),
		)
	}
}

func (s *Service) invalidate(ctx context.Context, keys map[string]struct{}) {
	if len(keys) == 0 {
		return
	}
	list := lo.Keys(keys)
	slices.Sort(list)
	if err := s.cache.Invalidate(ctx, list...); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Err(err))
	}
}
