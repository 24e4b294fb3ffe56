// Package validation проверяет и очищает входные данные мутаций подписок
// и транзакций до передачи в хранилище.
//
// Проверка не прерывается на первой ошибке: клиент получает полный список
// нарушений за один запрос.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// fieldValidator проверяет отдельные значения после приведения типов.
var fieldValidator = validator.New()

// MaxCost - верхняя граница стоимости подписки.
var MaxCost = decimal.RequireFromString("999999.99")

// dateLayouts перечисляет принимаемые форматы даты.
var dateLayouts = []string{"2006-01-02", time.RFC3339Nano, time.RFC3339}

// Result - итог проверки. Sanitized содержит только прошедшие проверку поля.
type Result struct {
	Valid     bool
	Errors    []string
	Sanitized models.SubscriptionPatch
}

// Error - ошибка валидации с перечнем всех нарушений.
type Error struct {
	Details []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// NewError создаёт ошибку валидации из списка нарушений.
func NewError(details ...string) *Error {
	return &Error{Details: details}
}

// Err возвращает ошибку валидации или nil, если данные корректны.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return NewError(r.Errors...)
}

type collector struct {
	errs  []string
	input map[string]any
}

func (c *collector) add(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

// lookup возвращает значение поля; JSON null считается отсутствием поля.
func (c *collector) lookup(field string) (any, bool) {
	v, ok := c.input[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Validate проверяет тело запроса на создание (isUpdate=false) или
// частичное обновление подписки (isUpdate=true).
func Validate(input map[string]any, isUpdate bool) Result {
	c := &collector{input: input}
	var out models.SubscriptionPatch

	required := func(field string) bool { return !isUpdate && isRequired(field) }

	out.ServiceName = c.text("serviceName", 1, 100, required("serviceName"))
	out.PlanType = c.text("planType", 1, 50, required("planType"))
	out.Cost = c.cost("cost", required("cost"))
	out.BillingCycle = enum(c, "billingCycle", models.AllBillingCycles(), required("billingCycle"))
	out.NextBillingDate = c.date("nextBillingDate", required("nextBillingDate"))
	out.Status = enum(c, "status", models.AllStatuses(), false)
	out.Category = c.text("category", 1, 50, false)
	out.PaymentMethod = enum(c, "paymentMethod", models.AllPaymentMethods(), false)
	out.AutoRenewal = c.boolean("autoRenewal")

	if isUpdate && len(c.errs) == 0 && out.Empty() {
		c.add("at least one field must be provided")
	}

	return Result{
		Valid:     len(c.errs) == 0,
		Errors:    c.errs,
		Sanitized: out,
	}
}

func isRequired(field string) bool {
	switch field {
	case "serviceName", "planType", "cost", "billingCycle", "nextBillingDate":
		return true
	}
	return false
}

func (c *collector) text(field string, minLen, maxLen int, required bool) *string {
	v, ok := c.lookup(field)
	if !ok {
		if required {
			c.add("%s is required", field)
		}
		return nil
	}
	s, isString := v.(string)
	if !isString {
		c.add("%s must be a string", field)
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" && required {
		c.add("%s is required", field)
		return nil
	}
	if !utf8.ValidString(s) {
		c.add("%s must be valid UTF-8 text", field)
		return nil
	}
	if err := fieldValidator.Var(s, fmt.Sprintf("min=%d,max=%d", minLen, maxLen)); err != nil {
		c.add("%s must be between %d and %d characters", field, minLen, maxLen)
		return nil
	}
	return &s
}

func (c *collector) cost(field string, required bool) *decimal.Decimal {
	v, ok := c.lookup(field)
	if !ok {
		if required {
			c.add("%s is required", field)
		}
		return nil
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch t := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(t.String())
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			err = fmt.Errorf("not a number")
		} else {
			d = decimal.NewFromFloat(t)
		}
	case int:
		d = decimal.NewFromInt(int64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" && required {
			c.add("%s is required", field)
			return nil
		}
		d, err = decimal.NewFromString(s)
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}
	if err != nil || d.IsNegative() || d.GreaterThan(MaxCost) {
		c.add("%s must be a non-negative number not greater than %s", field, MaxCost.StringFixed(2))
		return nil
	}
	d = d.Round(2)
	return &d
}

func enum[T ~string](c *collector, field string, allowed []T, required bool) *T {
	v, ok := c.lookup(field)
	if !ok {
		if required {
			c.add("%s is required", field)
		}
		return nil
	}
	s, isString := v.(string)
	if !isString {
		c.add("%s must be one of: %s", field, models.JoinValues(allowed))
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" && required {
		c.add("%s is required", field)
		return nil
	}
	tag := "oneof=" + strings.Join(lo.Map(allowed, func(a T, _ int) string { return string(a) }), " ")
	if err := fieldValidator.Var(s, tag); err != nil {
		c.add("%s must be one of: %s", field, models.JoinValues(allowed))
		return nil
	}
	val := T(s)
	return &val
}

func (c *collector) date(field string, required bool) *time.Time {
	v, ok := c.lookup(field)
	if !ok {
		if required {
			c.add("%s is required", field)
		}
		return nil
	}
	s, isString := v.(string)
	if !isString {
		c.add("%s must be a valid date", field)
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" && required {
		c.add("%s is required", field)
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		c.add("%s must be a valid date", field)
		return nil
	}
	return &t
}

func (c *collector) boolean(field string) *bool {
	v, ok := c.lookup(field)
	if !ok {
		return nil
	}
	b, isBool := v.(bool)
	if !isBool {
		c.add("%s must be a boolean", field)
		return nil
	}
	return &b
}

// ParseDate разбирает дату в формате YYYY-MM-DD или RFC 3339 и приводит её к UTC.
func ParseDate(s string) (time.Time, error) {
	const op = "validation.ParseDate"
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: invalid date %q", op, s)
}
