package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const transactionColumns = `id, subscription_id, amount, date, payment_method, status, receipt_url, created_at`

func scanTransaction(row scanner) (models.Transaction, error) {
	var (
		t       models.Transaction
		receipt sql.NullString
	)
	if err := row.Scan(&t.ID, &t.SubscriptionID, &t.Amount, &t.Date, &t.PaymentMethod,
		&t.Status, &receipt, &t.CreatedAt); err != nil {
		return models.Transaction{}, err
	}
	if receipt.Valid {
		t.ReceiptURL = &receipt.String
	}
	return t, nil
}

// CreateTransaction сохраняет платёж по подписке.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	const op = "storage.CreateTransaction"
	if err := checkCtx(ctx, op); err != nil {
		return models.Transaction{}, err
	}

	query := `INSERT INTO transactions (id, subscription_id, amount, date, payment_method, status, receipt_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + transactionColumns
	created, err := scanTransaction(s.DB.QueryRowContext(ctx, query,
		tx.ID, tx.SubscriptionID, tx.Amount, tx.Date, string(tx.PaymentMethod), string(tx.Status), tx.ReceiptURL))
	if err != nil {
		return models.Transaction{}, mapError(op, err)
	}
	return created, nil
}

// ListTransactions возвращает платежи по подписке, новые первыми.
func (s *Storage) ListTransactions(ctx context.Context, subscriptionID string) ([]models.Transaction, error) {
	const op = "storage.ListTransactions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+transactionColumns+`
			  FROM transactions
			  WHERE subscription_id = $1
			  ORDER BY date DESC, created_at DESC`, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
