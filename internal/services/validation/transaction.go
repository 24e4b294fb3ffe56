package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// TransactionValidator проверяет тело запроса на запись платежа.
type TransactionValidator struct {
	validate *validator.Validate
}

// NewTransactionValidator создаёт валидатор транзакций.
func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{validate: validator.New()}
}

// Validate возвращает очищенную транзакцию или *Error со всеми нарушениями.
func (v *TransactionValidator) Validate(req models.DummyTransaction) (models.Transaction, error) {
	errs := StructErrors(v.validate, req)

	tx := models.Transaction{
		Amount: decimal.NewFromFloat(req.Amount).Round(2),
	}

	if req.Date != "" {
		date, err := ParseDate(strings.TrimSpace(req.Date))
		if err != nil {
			errs = append(errs, "date must be a valid date")
		}
		tx.Date = date
	}

	if req.PaymentMethod != "" {
		tx.PaymentMethod = models.PaymentMethod(strings.TrimSpace(req.PaymentMethod))
		if !tx.PaymentMethod.Valid() {
			errs = append(errs, fmt.Sprintf("paymentMethod must be one of: %s", models.JoinValues(models.AllPaymentMethods())))
		}
	}

	tx.Status = models.TransactionStatusCompleted
	if req.Status != "" {
		tx.Status = models.TransactionStatus(strings.TrimSpace(req.Status))
		if !tx.Status.Valid() {
			errs = append(errs, fmt.Sprintf("status must be one of: %s", models.JoinValues(models.AllTransactionStatuses())))
		}
	}

	if url := strings.TrimSpace(req.ReceiptURL); url != "" {
		tx.ReceiptURL = &url
	}

	if len(errs) > 0 {
		return models.Transaction{}, NewError(errs...)
	}
	return tx, nil
}

// StructErrors проверяет структуру по тегам validate и возвращает
// сообщения обо всех нарушениях.
func StructErrors(validate *validator.Validate, s any) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	name := jsonName(fe.Field())
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must not be greater than %s", name, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", name)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", name)
	}
}

// jsonName преобразует имя поля структуры в имя поля JSON.
func jsonName(field string) string {
	switch field {
	case "ReceiptURL":
		return "receiptUrl"
	case "":
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
