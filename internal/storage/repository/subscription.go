package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

const subscriptionColumns = `id, user_id, service_name, plan_type, cost, billing_cycle,
	next_billing_date, status, category, payment_method, auto_renewal, created_at, updated_at`

func scanSubscription(row scanner) (models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.ServiceName, &s.PlanType, &s.Cost, &s.BillingCycle,
		&s.NextBillingDate, &s.Status, &s.Category, &s.PaymentMethod, &s.AutoRenewal,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (s *Storage) querySubscriptions(ctx context.Context, op, query string, args ...any) ([]models.Subscription, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		item, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateSubscription вставляет новую подписку и возвращает сохранённую запись.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	const op = "storage.CreateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return models.Subscription{}, err
	}

	query := `INSERT INTO subscriptions (id, user_id, service_name, plan_type, cost, billing_cycle,
			      next_billing_date, status, category, payment_method, auto_renewal)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + subscriptionColumns
	row := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, sub.ServiceName, sub.PlanType, sub.Cost, string(sub.BillingCycle),
		sub.NextBillingDate, string(sub.Status), sub.Category, string(sub.PaymentMethod), sub.AutoRenewal)
	created, err := scanSubscription(row)
	if err != nil {
		return models.Subscription{}, mapError(op, err)
	}
	return created, nil
}

// GetSubscription возвращает подписку пользователя по ID.
func (s *Storage) GetSubscription(ctx context.Context, id, userID string) (models.Subscription, error) {
	const op = "storage.GetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return models.Subscription{}, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE id = $1 AND user_id = $2`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return models.Subscription{}, mapError(op, err)
	}
	return sub, nil
}

// UpdateSubscription применяет патч к подписке пользователя.
func (s *Storage) UpdateSubscription(ctx context.Context, id, userID string, patch models.SubscriptionPatch) (models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return models.Subscription{}, err
	}

	w := &whereBuilder{}
	var sets []string
	set := func(column string, v any) {
		sets = append(sets, column+" = "+w.arg(v))
	}
	if patch.ServiceName != nil {
		set("service_name", *patch.ServiceName)
	}
	if patch.PlanType != nil {
		set("plan_type", *patch.PlanType)
	}
	if patch.Cost != nil {
		set("cost", *patch.Cost)
	}
	if patch.BillingCycle != nil {
		set("billing_cycle", string(*patch.BillingCycle))
	}
	if patch.NextBillingDate != nil {
		set("next_billing_date", *patch.NextBillingDate)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.PaymentMethod != nil {
		set("payment_method", string(*patch.PaymentMethod))
	}
	if patch.AutoRenewal != nil {
		set("auto_renewal", *patch.AutoRenewal)
	}
	sets = append(sets, "updated_at = NOW()")

	w.eq("id", id)
	w.eq("user_id", userID)

	query := `UPDATE subscriptions SET ` + strings.Join(sets, ", ") + `
			  WHERE ` + w.sql() + `
			  RETURNING ` + subscriptionColumns
	updated, err := scanSubscription(s.DB.QueryRowContext(ctx, query, w.args...))
	if err != nil {
		return models.Subscription{}, mapError(op, err)
	}
	return updated, nil
}

// DeleteSubscription удаляет подписку пользователя; транзакции удаляются каскадно.
func (s *Storage) DeleteSubscription(ctx context.Context, id, userID string) error {
	const op = "storage.DeleteSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// FindSubscriptions возвращает страницу подписок и общее число подходящих записей.
func (s *Storage) FindSubscriptions(ctx context.Context, q models.SubscriptionQuery) ([]models.Subscription, int, error) {
	const op = "storage.FindSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	w := buildFilter(q.Filter)

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE `+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	limit := w.arg(q.Limit)
	offset := w.arg(q.Skip)
	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE ` + w.sql() + `
			  ORDER BY ` + orderBy(q) + `
			  LIMIT ` + limit + ` OFFSET ` + offset
	result, err := s.querySubscriptions(ctx, op, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// FindAllSubscriptionsForUser возвращает все подписки пользователя.
func (s *Storage) FindAllSubscriptionsForUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "storage.FindAllSubscriptionsForUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY created_at, id`
	return s.querySubscriptions(ctx, op, query, userID)
}

// FindUpcomingActiveSubscriptions возвращает активные подписки со списанием в [from, to].
func (s *Storage) FindUpcomingActiveSubscriptions(ctx context.Context, userID string, from, to time.Time) ([]models.Subscription, error) {
	const op = "storage.FindUpcomingActiveSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			    AND status = $2
			    AND next_billing_date >= $3
			    AND next_billing_date <= $4
			  ORDER BY next_billing_date ASC, id ASC`
	return s.querySubscriptions(ctx, op, query, userID, string(models.StatusActive), from, to)
}

// FindOverdueActiveSubscriptions возвращает активные подписки всех пользователей,
// дата списания которых уже прошла.
func (s *Storage) FindOverdueActiveSubscriptions(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	const op = "storage.FindOverdueActiveSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE status = $1 AND next_billing_date < $2
			  ORDER BY next_billing_date ASC`
	return s.querySubscriptions(ctx, op, query, string(models.StatusActive), now)
}

// UpdateNextBillingDate обновляет дату следующего списания.
func (s *Storage) UpdateNextBillingDate(ctx context.Context, id string, next time.Time) error {
	const op = "storage.UpdateNextBillingDate"
	return s.execOne(ctx, op, `UPDATE subscriptions
		      SET next_billing_date = $1, updated_at = NOW()
		      WHERE id = $2`, next, id)
}

// UpdateSubscriptionStatus меняет статус подписки.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, id string, status models.Status) error {
	const op = "storage.UpdateSubscriptionStatus"
	return s.execOne(ctx, op, `UPDATE subscriptions
		      SET status = $1, updated_at = NOW()
		      WHERE id = $2`, string(status), id)
}

// SumCompletedTransactionAmounts суммирует завершённые платежи пользователя
// по всем его подпискам независимо от их статуса.
func (s *Storage) SumCompletedTransactionAmounts(ctx context.Context, userID string) (decimal.Decimal, error) {
	const op = "storage.SumCompletedTransactionAmounts"
	if err := checkCtx(ctx, op); err != nil {
		return decimal.Zero, err
	}

	query := `SELECT COALESCE(SUM(t.amount), 0)
			  FROM transactions t
			  JOIN subscriptions s ON s.id = t.subscription_id
			  WHERE s.user_id = $1 AND t.status = $2`
	var total decimal.Decimal
	if err := s.DB.QueryRowContext(ctx, query, userID, string(models.TransactionStatusCompleted)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
