package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription представляет подписку пользователя в том виде, в котором
// она хранится в базе данных.
type Subscription struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	ServiceName     string          `json:"serviceName"`
	PlanType        string          `json:"planType"`
	Cost            decimal.Decimal `json:"cost"`
	BillingCycle    BillingCycle    `json:"billingCycle"`
	NextBillingDate time.Time       `json:"nextBillingDate"`
	Status          Status          `json:"status"`
	Category        string          `json:"category"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	AutoRenewal     bool            `json:"autoRenewal"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// SubscriptionPatch содержит очищенные валидатором значения полей.
// nil означает, что поле не передавалось. При создании обязательные поля
// всегда заполнены.
type SubscriptionPatch struct {
	ServiceName     *string
	PlanType        *string
	Cost            *decimal.Decimal
	BillingCycle    *BillingCycle
	NextBillingDate *time.Time
	Status          *Status
	Category        *string
	PaymentMethod   *PaymentMethod
	AutoRenewal     *bool
}

// Empty сообщает, что в патче нет ни одного поля.
func (p SubscriptionPatch) Empty() bool {
	return p.ServiceName == nil && p.PlanType == nil && p.Cost == nil &&
		p.BillingCycle == nil && p.NextBillingDate == nil && p.Status == nil &&
		p.Category == nil && p.PaymentMethod == nil && p.AutoRenewal == nil
}

// Apply накладывает патч на копию подписки.
func (p SubscriptionPatch) Apply(s Subscription) Subscription {
	if p.ServiceName != nil {
		s.ServiceName = *p.ServiceName
	}
	if p.PlanType != nil {
		s.PlanType = *p.PlanType
	}
	if p.Cost != nil {
		s.Cost = *p.Cost
	}
	if p.BillingCycle != nil {
		s.BillingCycle = *p.BillingCycle
	}
	if p.NextBillingDate != nil {
		s.NextBillingDate = *p.NextBillingDate
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.PaymentMethod != nil {
		s.PaymentMethod = *p.PaymentMethod
	}
	if p.AutoRenewal != nil {
		s.AutoRenewal = *p.AutoRenewal
	}
	return s
}
