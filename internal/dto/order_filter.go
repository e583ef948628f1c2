package dto

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"ordercrm/internal/domain"
)

const filterDateLayout = "2006-01-02"

// ParseOrderFilter builds an order filter from the status, product,
// start_date and end_date query parameters. Empty values and unknown keys
// are ignored; a value that cannot match anything sets MatchNone.
func ParseOrderFilter(query url.Values) domain.OrderFilter {
	var f domain.OrderFilter

	if v := strings.TrimSpace(query.Get("status")); v != "" {
		status := domain.OrderStatus(v)
		if status.IsValid() {
			f.Status = &status
		} else {
			f.MatchNone = true
		}
	}

	if v := strings.TrimSpace(query.Get("product")); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			f.MatchNone = true
		} else {
			f.ProductID = &id
		}
	}

	if v := strings.TrimSpace(query.Get("start_date")); v != "" {
		start, err := time.Parse(filterDateLayout, v)
		if err != nil {
			f.MatchNone = true
		} else {
			f.StartDate = &start
		}
	}

	if v := strings.TrimSpace(query.Get("end_date")); v != "" {
		day, err := time.Parse(filterDateLayout, v)
		if err != nil {
			f.MatchNone = true
		} else {
			// exclusive upper bound covering the whole end day
			end := day.AddDate(0, 0, 1)
			f.EndDate = &end
		}
	}

	return f
}
