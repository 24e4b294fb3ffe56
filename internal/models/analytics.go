package models

import "time"

// Overview - сводные показатели по подпискам пользователя.
type Overview struct {
	TotalSubscriptions    int     `json:"totalSubscriptions"`
	ActiveSubscriptions   int     `json:"activeSubscriptions"`
	InactiveSubscriptions int     `json:"inactiveSubscriptions"`
	MonthlyTotal          float64 `json:"monthlyTotal"`
	YearlyTotal           float64 `json:"yearlyTotal"`
	TotalSpent            float64 `json:"totalSpent"`
}

// UpcomingRenewal - краткая запись о ближайшем списании.
type UpcomingRenewal struct {
	ID              string    `json:"id"`
	ServiceName     string    `json:"serviceName"`
	Cost            float64   `json:"cost"`
	NextBillingDate time.Time `json:"nextBillingDate"`
}

// UpcomingRenewals - списания в ближайшие 30 дней.
type UpcomingRenewals struct {
	Count         int               `json:"count"`
	TotalCost     float64           `json:"totalCost"`
	Subscriptions []UpcomingRenewal `json:"subscriptions"`
}

// CategoryTotal - агрегат по одной категории.
type CategoryTotal struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	MonthlyTotal float64 `json:"monthlyTotal"`
}

// AnalyticsSnapshot - результат агрегации, вычисляется на каждый запрос.
type AnalyticsSnapshot struct {
	Overview          Overview         `json:"overview"`
	UpcomingRenewals  UpcomingRenewals `json:"upcomingRenewals"`
	CategoryBreakdown []CategoryTotal  `json:"categoryBreakdown"`
}
