package repository

import (
	"fmt"
	"strings"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

var sortColumns = map[models.SortField]string{
	models.SortByServiceName:     "service_name",
	models.SortByCost:            "cost",
	models.SortByNextBillingDate: "next_billing_date",
	models.SortByCreatedAt:       "created_at",
	models.SortByUpdatedAt:       "updated_at",
}

// whereBuilder собирает условия WHERE с позиционными параметрами.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) eq(column string, v any) {
	w.conds = append(w.conds, column+" = "+w.arg(v))
}

func (w *whereBuilder) sql() string {
	return strings.Join(w.conds, " AND ")
}

// buildFilter превращает фильтр в условие WHERE. Условие по владельцу
// добавляется первым и присутствует всегда.
func buildFilter(f models.SubscriptionFilter) *whereBuilder {
	w := &whereBuilder{}
	w.eq("user_id", f.UserID)
	if f.Status != nil {
		w.eq("status", string(*f.Status))
	}
	if f.Category != nil {
		w.eq("category", *f.Category)
	}
	if f.BillingCycle != nil {
		w.eq("billing_cycle", string(*f.BillingCycle))
	}
	if f.Search != nil {
		p := w.arg("%" + escapeLike(*f.Search) + "%")
		w.conds = append(w.conds, fmt.Sprintf("(service_name ILIKE %[1]s OR plan_type ILIKE %[1]s OR category ILIKE %[1]s)", p))
	}
	return w
}

func orderBy(q models.SubscriptionQuery) string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "next_billing_date"
	}
	dir := "ASC"
	if q.SortOrder == models.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", col, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
