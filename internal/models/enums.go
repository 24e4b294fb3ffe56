// Package models содержит доменные структуры трекера подписок и
// канонические перечисления, на которые ссылаются валидация, планировщик
// запросов и хранилище.
package models

import (
	"strings"

	"github.com/samber/lo"
)

// BillingCycle - периодичность списания по подписке.
type BillingCycle string

const (
	BillingCycleDaily     BillingCycle = "daily"
	BillingCycleWeekly    BillingCycle = "weekly"
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
)

// AllBillingCycles возвращает допустимые значения BillingCycle.
func AllBillingCycles() []BillingCycle {
	return []BillingCycle{
		BillingCycleDaily,
		BillingCycleWeekly,
		BillingCycleMonthly,
		BillingCycleQuarterly,
		BillingCycleYearly,
	}
}

// Valid сообщает, входит ли значение в закрытый список.
func (c BillingCycle) Valid() bool {
	return lo.Contains(AllBillingCycles(), c)
}

// Status - состояние подписки.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// AllStatuses возвращает допустимые значения Status.
func AllStatuses() []Status {
	return []Status{StatusActive, StatusInactive, StatusCancelled, StatusExpired}
}

// Valid сообщает, входит ли значение в закрытый список.
func (s Status) Valid() bool {
	return lo.Contains(AllStatuses(), s)
}

// PaymentMethod - способ оплаты подписки или транзакции.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodApplePay     PaymentMethod = "apple_pay"
	PaymentMethodGooglePay    PaymentMethod = "google_pay"
	PaymentMethodOther        PaymentMethod = "other"
)

// AllPaymentMethods возвращает допустимые значения PaymentMethod.
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodCreditCard,
		PaymentMethodDebitCard,
		PaymentMethodPayPal,
		PaymentMethodBankTransfer,
		PaymentMethodApplePay,
		PaymentMethodGooglePay,
		PaymentMethodOther,
	}
}

// Valid сообщает, входит ли значение в закрытый список.
func (m PaymentMethod) Valid() bool {
	return lo.Contains(AllPaymentMethods(), m)
}

// TransactionStatus - состояние платежа.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// AllTransactionStatuses возвращает допустимые значения TransactionStatus.
func AllTransactionStatuses() []TransactionStatus {
	return []TransactionStatus{TransactionStatusCompleted, TransactionStatusPending, TransactionStatusFailed}
}

// Valid сообщает, входит ли значение в закрытый список.
func (s TransactionStatus) Valid() bool {
	return lo.Contains(AllTransactionStatuses(), s)
}

// SortField - поле, по которому разрешена сортировка списка подписок.
type SortField string

const (
	SortByServiceName     SortField = "serviceName"
	SortByCost            SortField = "cost"
	SortByNextBillingDate SortField = "nextBillingDate"
	SortByCreatedAt       SortField = "createdAt"
	SortByUpdatedAt       SortField = "updatedAt"
)

// AllSortFields возвращает допустимые значения SortField.
func AllSortFields() []SortField {
	return []SortField{SortByServiceName, SortByCost, SortByNextBillingDate, SortByCreatedAt, SortByUpdatedAt}
}

// Valid сообщает, входит ли значение в закрытый список.
func (f SortField) Valid() bool {
	return lo.Contains(AllSortFields(), f)
}

// SortOrder - направление сортировки.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid сообщает, входит ли значение в закрытый список.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// JoinValues склеивает значения перечисления через запятую для сообщений об ошибках.
func JoinValues[T ~string](values []T) string {
	return strings.Join(lo.Map(values, func(v T, _ int) string { return string(v) }), ", ")
}
