// Package query разбирает недоверенные параметры запроса списка подписок
// в ограниченное описание выборки models.SubscriptionQuery.
//
// Разбор никогда не завершается ошибкой: некорректные значения заменяются
// значениями по умолчанию.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = models.SortByNextBillingDate
	DefaultSortOrder = models.SortAsc

	// MaxPage ограничивает номер страницы так, чтобы смещение помещалось в int.
	MaxPage = math.MaxInt / MaxLimit
)

// Plan строит описание выборки для пользователя userID.
// Фильтр по владельцу добавляется всегда и не зависит от параметров.
func Plan(raw url.Values, userID string) models.SubscriptionQuery {
	page := parseInt(raw.Get("page"), DefaultPage)
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}

	limit := parseInt(raw.Get("limit"), DefaultLimit)
	switch {
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}

	sortBy := models.SortField(strings.TrimSpace(raw.Get("sortBy")))
	if !sortBy.Valid() {
		sortBy = DefaultSortBy
	}

	sortOrder := models.SortOrder(strings.ToLower(strings.TrimSpace(raw.Get("sortOrder"))))
	if !sortOrder.Valid() {
		sortOrder = DefaultSortOrder
	}

	filter := models.SubscriptionFilter{UserID: userID}
	if v, ok := nonBlank(raw, "status"); ok {
		status := models.Status(v)
		filter.Status = &status
	}
	if v, ok := nonBlank(raw, "category"); ok {
		filter.Category = &v
	}
	if v, ok := nonBlank(raw, "billingCycle"); ok {
		cycle := models.BillingCycle(v)
		filter.BillingCycle = &cycle
	}
	if v, ok := nonBlank(raw, "search"); ok {
		filter.Search = &v
	}

	return models.SubscriptionQuery{
		Page:      page,
		Limit:     limit,
		Skip:      (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Filter:    filter,
	}
}

// parseInt берёт ведущую целую часть строки ("3abc" -> 3),
// при неудаче возвращается fallback.
func parseInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return n
}

func nonBlank(raw url.Values, key string) (string, bool) {
	v := strings.TrimSpace(raw.Get(key))
	return v, v != ""
}
