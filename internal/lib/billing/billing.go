// Package billing приводит стоимость подписок с разной периодичностью
// к месячному эквиваленту и сдвигает дату следующего списания.
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

var (
	daysInMonth   = decimal.NewFromInt(30)
	weeksInMonth  = decimal.RequireFromString("4.33")
	monthsInQuart = decimal.NewFromInt(3)
	monthsInYear  = decimal.NewFromInt(12)
)

// MonthlyEquivalent возвращает стоимость подписки в пересчёте на месяц.
// Для неизвестной периодичности возвращается ноль.
func MonthlyEquivalent(cost decimal.Decimal, cycle models.BillingCycle) decimal.Decimal {
	switch cycle {
	case models.BillingCycleDaily:
		return cost.Mul(daysInMonth)
	case models.BillingCycleWeekly:
		return cost.Mul(weeksInMonth)
	case models.BillingCycleMonthly:
		return cost
	case models.BillingCycleQuarterly:
		return cost.Div(monthsInQuart)
	case models.BillingCycleYearly:
		return cost.Div(monthsInYear)
	default:
		return decimal.Zero
	}
}

// Advance сдвигает дату на один период. Календарные месяцы считаются
// через time.AddDate: переполнение дня переносится в следующий месяц,
// поэтому 31 января + 1 месяц в 2025 году даёт 3 марта.
func Advance(date time.Time, cycle models.BillingCycle) (time.Time, error) {
	const op = "billing.Advance"
	switch cycle {
	case models.BillingCycleDaily:
		return date.AddDate(0, 0, 1), nil
	case models.BillingCycleWeekly:
		return date.AddDate(0, 0, 7), nil
	case models.BillingCycleMonthly:
		return date.AddDate(0, 1, 0), nil
	case models.BillingCycleQuarterly:
		return date.AddDate(0, 3, 0), nil
	case models.BillingCycleYearly:
		return date.AddDate(1, 0, 0), nil
	default:
		return date, fmt.Errorf("%s: unknown billing cycle %q", op, cycle)
	}
}

// AdvancePast сдвигает дату на целое число периодов, пока она не станет
// не раньше now. Возвращает новую дату и число выполненных сдвигов.
func AdvancePast(date time.Time, cycle models.BillingCycle, now time.Time) (time.Time, int, error) {
	steps := 0
	for date.Before(now) {
		next, err := Advance(date, cycle)
		if err != nil {
			return date, steps, err
		}
		date = next
		steps++
	}
	return date, steps, nil
}
