package validation

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

func validInput() map[string]any {
	return map[string]any{
		"serviceName":     "  Netflix ",
		"planType":        "Premium",
		"cost":            json.Number("15.99"),
		"billingCycle":    "monthly",
		"nextBillingDate": "2025-02-01",
		"status":          "active",
		"category":        "streaming",
		"paymentMethod":   "credit_card",
		"autoRenewal":     true,
	}
}

func TestValidate_CreateValid(t *testing.T) {
	res := Validate(validInput(), false)

	require.True(t, res.Valid, res.Errors)
	assert.Empty(t, res.Errors)
	require.NoError(t, res.Err())

	s := res.Sanitized
	require.NotNil(t, s.ServiceName)
	assert.Equal(t, "Netflix", *s.ServiceName)
	assert.True(t, decimal.RequireFromString("15.99").Equal(*s.Cost))
	assert.Equal(t, models.BillingCycleMonthly, *s.BillingCycle)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *s.NextBillingDate)
	assert.Equal(t, models.StatusActive, *s.Status)
	assert.Equal(t, models.PaymentMethodCreditCard, *s.PaymentMethod)
	assert.True(t, *s.AutoRenewal)
}

func TestValidate_CreateMissingRequired(t *testing.T) {
	res := Validate(map[string]any{}, false)

	assert.False(t, res.Valid)
	assert.ElementsMatch(t, []string{
		"serviceName is required",
		"planType is required",
		"cost is required",
		"billingCycle is required",
		"nextBillingDate is required",
	}, res.Errors)
}

func TestValidate_NegativeCostReportedWithOtherErrors(t *testing.T) {
	in := validInput()
	in["cost"] = -1.0
	in["serviceName"] = ""

	res := Validate(in, false)

	assert.False(t, res.Valid)
	require.GreaterOrEqual(t, len(res.Errors), 2)
	assert.Contains(t, res.Errors, "serviceName is required")
	assert.True(t, containsPrefix(res.Errors, "cost "))
	assert.Nil(t, res.Sanitized.Cost)
	assert.Nil(t, res.Sanitized.ServiceName)
	// остальные поля прошли проверку
	assert.NotNil(t, res.Sanitized.PlanType)
}

func TestValidate_CostRules(t *testing.T) {
	tests := []struct {
		name  string
		cost  any
		valid bool
		want  string
	}{
		{name: "zero", cost: 0.0, valid: true, want: "0"},
		{name: "max", cost: json.Number("999999.99"), valid: true, want: "999999.99"},
		{name: "string number", cost: " 12.5 ", valid: true, want: "12.5"},
		{name: "rounded to cents", cost: json.Number("9.999"), valid: true, want: "10"},
		{name: "over max", cost: json.Number("1000000"), valid: false},
		{name: "negative", cost: json.Number("-0.01"), valid: false},
		{name: "NaN float", cost: math.NaN(), valid: false},
		{name: "NaN string", cost: "NaN", valid: false},
		{name: "not a number", cost: "abc", valid: false},
		{name: "bool", cost: true, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(map[string]any{"cost": tt.cost}, true)
			assert.Equal(t, tt.valid, res.Valid, res.Errors)
			if tt.valid {
				require.NotNil(t, res.Sanitized.Cost)
				assert.True(t, decimal.RequireFromString(tt.want).Equal(*res.Sanitized.Cost))
			} else {
				assert.Equal(t, []string{"cost must be a non-negative number not greater than 999999.99"}, res.Errors)
			}
		})
	}
}

func TestValidate_EnumErrorsListAllowedValues(t *testing.T) {
	res := Validate(map[string]any{
		"billingCycle":  "biweekly",
		"status":        "paused",
		"paymentMethod": "cash",
	}, true)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"billingCycle must be one of: daily, weekly, monthly, quarterly, yearly",
		"status must be one of: active, inactive, cancelled, expired",
		"paymentMethod must be one of: credit_card, debit_card, paypal, bank_transfer, apple_pay, google_pay, other",
	}, res.Errors)
}

func TestValidate_StringBounds(t *testing.T) {
	res := Validate(map[string]any{
		"serviceName": strings.Repeat("a", 101),
		"planType":    "   ",
		"category":    strings.Repeat("б", 50),
	}, true)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"serviceName must be between 1 and 100 characters",
		"planType must be between 1 and 50 characters",
	}, res.Errors)
	// длина считается в символах, а не в байтах
	require.NotNil(t, res.Sanitized.Category)
}

func TestValidate_InvalidUTF8Rejected(t *testing.T) {
	res := Validate(map[string]any{
		"serviceName": "Net\xfflix",
		"category":    string([]byte{0xc3, 0x28}),
	}, true)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"serviceName must be valid UTF-8 text",
		"category must be valid UTF-8 text",
	}, res.Errors)
	assert.Nil(t, res.Sanitized.ServiceName)
	assert.Nil(t, res.Sanitized.Category)
}

func TestValidate_EnumValuesAccepted(t *testing.T) {
	for _, cycle := range models.AllBillingCycles() {
		t.Run(string(cycle), func(t *testing.T) {
			res := Validate(map[string]any{"billingCycle": " " + string(cycle) + " "}, true)

			require.True(t, res.Valid, res.Errors)
			require.NotNil(t, res.Sanitized.BillingCycle)
			assert.Equal(t, cycle, *res.Sanitized.BillingCycle)
		})
	}
}

func TestValidate_Dates(t *testing.T) {
	tests := []struct {
		name  string
		date  any
		valid bool
	}{
		{name: "plain date", date: "2025-12-31", valid: true},
		{name: "rfc3339", date: "2025-12-31T10:00:00Z", valid: true},
		{name: "impossible day", date: "2025-02-30", valid: false},
		{name: "garbage", date: "tomorrow", valid: false},
		{name: "number", date: 20250101.0, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(map[string]any{"nextBillingDate": tt.date}, true)
			assert.Equal(t, tt.valid, res.Valid, res.Errors)
		})
	}
}

func TestValidate_AutoRenewalMustBeBoolean(t *testing.T) {
	res := Validate(map[string]any{"autoRenewal": "true"}, true)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"autoRenewal must be a boolean"}, res.Errors)

	res = Validate(map[string]any{"autoRenewal": false}, true)
	require.True(t, res.Valid)
	assert.False(t, *res.Sanitized.AutoRenewal)
}

func TestValidate_UpdatePartial(t *testing.T) {
	res := Validate(map[string]any{"planType": "Basic"}, true)

	require.True(t, res.Valid)
	assert.Equal(t, "Basic", *res.Sanitized.PlanType)
	assert.Nil(t, res.Sanitized.ServiceName)
	assert.Nil(t, res.Sanitized.Cost)
}

func TestValidate_UpdateRequiresSomeField(t *testing.T) {
	res := Validate(map[string]any{"userId": "other", "id": "x"}, true)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{"at least one field must be provided"}, res.Errors)

	var verr *Error
	require.ErrorAs(t, res.Err(), &verr)
	assert.Equal(t, res.Errors, verr.Details)
}

func TestValidate_NullTreatedAsAbsent(t *testing.T) {
	in := validInput()
	in["category"] = nil
	res := Validate(in, false)

	require.True(t, res.Valid)
	assert.Nil(t, res.Sanitized.Category)
}

func containsPrefix(list []string, prefix string) bool {
	for _, s := range list {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
