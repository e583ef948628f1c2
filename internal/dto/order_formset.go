package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "ordercrm/internal/errors"
)

const (
	OrderFormsetPrefix  = "order"
	MaxOrderFormsetRows = 100
	// DefaultExtraOrderRows is the number of blank rows offered on a fresh formset.
	DefaultExtraOrderRows = 3

	msgManagementForm = "ManagementForm data is missing or has been tampered with"
)

// OrderRow is one sub-form of the order formset.
type OrderRow struct {
	Index   int
	Product string
	Status  string
}

func (r OrderRow) ProductField() string { return OrderFormsetField(r.Index, "product") }
func (r OrderRow) StatusField() string  { return OrderFormsetField(r.Index, "status") }

type OrderFormset struct {
	Rows []OrderRow
}

func (f OrderFormset) TotalFormsField() string {
	return OrderFormsetPrefix + "-TOTAL_FORMS"
}

func (f OrderFormset) TotalForms() int {
	return len(f.Rows)
}

func OrderFormsetField(index int, name string) string {
	return fmt.Sprintf("%s-%d-%s", OrderFormsetPrefix, index, name)
}

// NewOrderFormset returns extra blank rows; initialStatus pre-fills each row.
func NewOrderFormset(extra int, initialStatus string) OrderFormset {
	rows := make([]OrderRow, extra)
	for i := range rows {
		rows[i] = OrderRow{Index: i, Status: initialStatus}
	}
	return OrderFormset{Rows: rows}
}

// ParseOrderFormset reads the management field and every row it announces.
func ParseOrderFormset(form url.Values) (OrderFormset, error) {
	raw := strings.TrimSpace(form.Get(OrderFormsetPrefix + "-TOTAL_FORMS"))
	total, err := strconv.Atoi(raw)
	if err != nil || total < 0 {
		return OrderFormset{}, apperrors.NewValidationError(msgManagementForm, apperrors.ValidationDetail{
			Field:   apperrors.NonFieldError,
			Message: msgManagementForm,
		})
	}

	if total > MaxOrderFormsetRows {
		msg := fmt.Sprintf("Please submit at most %d forms.", MaxOrderFormsetRows)
		return OrderFormset{}, apperrors.NewValidationError(msg, apperrors.ValidationDetail{
			Field:   apperrors.NonFieldError,
			Message: msg,
		})
	}

	rows := make([]OrderRow, total)
	for i := range rows {
		rows[i] = OrderRow{
			Index:   i,
			Product: strings.TrimSpace(form.Get(OrderFormsetField(i, "product"))),
			Status:  strings.TrimSpace(form.Get(OrderFormsetField(i, "status"))),
		}
	}

	return OrderFormset{Rows: rows}, nil
}
