package models

// SubscriptionFilter описывает предикаты выборки. UserID обязателен всегда,
// остальные поля применяются, если не nil.
type SubscriptionFilter struct {
	UserID       string
	Status       *Status
	Category     *string
	BillingCycle *BillingCycle
	Search       *string
}

// SubscriptionQuery - проверенное описание запроса списка подписок.
type SubscriptionQuery struct {
	Page      int
	Limit     int
	Skip      int
	SortBy    SortField
	SortOrder SortOrder
	Filter    SubscriptionFilter
}

// Pagination - метаданные страницы для ответа.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination вычисляет метаданные по запросу и общему количеству записей.
func NewPagination(q SubscriptionQuery, total int) Pagination {
	pages := 0
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return Pagination{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
