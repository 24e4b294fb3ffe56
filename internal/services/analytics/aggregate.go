// Package analytics вычисляет производные показатели расходов пользователя:
// сводку, ближайшие списания и разбивку по категориям.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/billing"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// UpcomingWindow - горизонт ближайших списаний.
const UpcomingWindow = 30 * 24 * time.Hour

// DefaultCategory - категория для подписок без категории.
const DefaultCategory = "other"

var monthsInYear = decimal.NewFromInt(12)

// Aggregate строит снимок аналитики по всем подпискам пользователя.
//
// totalSpent - сумма завершённых транзакций пользователя, не зависящая от
// статуса подписок. Округление до копеек выполняется только для выводимых
// значений, промежуточные суммы не округляются.
func Aggregate(subs []models.Subscription, totalSpent decimal.Decimal, now time.Time) models.AnalyticsSnapshot {
	var (
		active  int
		monthly = decimal.Zero
		horizon = now.Add(UpcomingWindow)

		upcoming     []models.Subscription
		upcomingCost = decimal.Zero

		buckets []*categoryBucket
		byName  = make(map[string]*categoryBucket)
	)

	for _, s := range subs {
		if s.Status != models.StatusActive {
			continue
		}
		active++

		eq := billing.MonthlyEquivalent(s.Cost, s.BillingCycle)
		monthly = monthly.Add(eq)

		if !s.NextBillingDate.Before(now) && !s.NextBillingDate.After(horizon) {
			upcoming = append(upcoming, s)
			upcomingCost = upcomingCost.Add(s.Cost)
		}

		name := strings.TrimSpace(s.Category)
		if name == "" {
			name = DefaultCategory
		}
		b, ok := byName[name]
		if !ok {
			b = &categoryBucket{name: name, monthly: decimal.Zero}
			byName[name] = b
			buckets = append(buckets, b)
		}
		b.count++
		b.monthly = b.monthly.Add(eq)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NextBillingDate.Before(upcoming[j].NextBillingDate)
	})
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].monthly.GreaterThan(buckets[j].monthly)
	})

	renewals := make([]models.UpcomingRenewal, 0, len(upcoming))
	for _, s := range upcoming {
		renewals = append(renewals, models.UpcomingRenewal{
			ID:              s.ID,
			ServiceName:     s.ServiceName,
			Cost:            money(s.Cost),
			NextBillingDate: s.NextBillingDate,
		})
	}

	breakdown := make([]models.CategoryTotal, 0, len(buckets))
	for _, b := range buckets {
		breakdown = append(breakdown, models.CategoryTotal{
			Category:     b.name,
			Count:        b.count,
			MonthlyTotal: money(b.monthly),
		})
	}

	return models.AnalyticsSnapshot{
		Overview: models.Overview{
			TotalSubscriptions:    len(subs),
			ActiveSubscriptions:   active,
			InactiveSubscriptions: len(subs) - active,
			MonthlyTotal:          money(monthly),
			YearlyTotal:           money(monthly.Mul(monthsInYear)),
			TotalSpent:            money(totalSpent),
		},
		UpcomingRenewals: models.UpcomingRenewals{
			Count:         len(renewals),
			TotalCost:     money(upcomingCost),
			Subscriptions: renewals,
		},
		CategoryBreakdown: breakdown,
	}
}

type categoryBucket struct {
	name    string
	count   int
	monthly decimal.Decimal
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
