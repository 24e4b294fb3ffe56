package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction - платёж по подписке. После создания не изменяется.
type Transaction struct {
	ID             string            `json:"id"`
	SubscriptionID string            `json:"subscriptionId"`
	Amount         decimal.Decimal   `json:"amount"`
	Date           time.Time         `json:"date"`
	PaymentMethod  PaymentMethod     `json:"paymentMethod"`
	Status         TransactionStatus `json:"status"`
	ReceiptURL     *string           `json:"receiptUrl,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// DummyTransaction используется для приёма данных платежа из JSON-запроса.
type DummyTransaction struct {
	Amount        float64 `json:"amount" validate:"gt=0,lte=999999.99"`
	Date          string  `json:"date" validate:"required"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
	Status        string  `json:"status" validate:"omitempty"`
	ReceiptURL    string  `json:"receiptUrl" validate:"omitempty,url,max=500"`
}
