// Package transaction записывает и возвращает платежи по подпискам пользователя.
package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/analytics"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/validation"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// Repository определяет методы хранилища, нужные для работы с платежами.
type Repository interface {
	GetSubscription(ctx context.Context, id, userID string) (models.Subscription, error)
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context, subscriptionID string) ([]models.Transaction, error)
}

// Invalidator удаляет устаревшие ключи кеша.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует операции над платежами.
type Service struct {
	repo      Repository
	cache     Invalidator
	validator *validation.TransactionValidator
	log       *slog.Logger
}

// NewService создаёт сервис платежей.
func NewService(repo Repository, cache Invalidator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		validator: validation.NewTransactionValidator(),
		log:       log,
	}
}

// Create записывает платёж по подписке владельца.
func (s *Service) Create(ctx context.Context, p models.Principal, subscriptionID string, req models.DummyTransaction) (models.Transaction, error) {
	const op = "services.transaction.Create"

	if err := s.checkOwner(ctx, p, subscriptionID); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.validator.Validate(req)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	tx.SubscriptionID = subscriptionID

	created, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("recorded transaction", slog.String("id", created.ID), slog.String("subscription_id", subscriptionID))

	key := analytics.CacheKey(p.UserID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}
	return created, nil
}

// List возвращает платежи по подписке владельца, новые первыми.
func (s *Service) List(ctx context.Context, p models.Principal, subscriptionID string) ([]models.Transaction, error) {
	const op = "services.transaction.List"

	if err := s.checkOwner(ctx, p, subscriptionID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	txs, err := s.repo.ListTransactions(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

func (s *Service) checkOwner(ctx context.Context, p models.Principal, subscriptionID string) error {
	if _, err := uuid.Parse(subscriptionID); err != nil {
		return storage.ErrNotFound
	}
	_, err := s.repo.GetSubscription(ctx, subscriptionID, p.UserID)
	return err
}
