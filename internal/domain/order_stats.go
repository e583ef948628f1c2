package domain

import "github.com/shopspring/decimal"

// OrderStats holds the dashboard counters. Total also counts orders whose
// status is none of the three known ones.
type OrderStats struct {
	Total        int
	Delivered    int
	InTheStash   int
	OnTheCourier int
}

func CountOrders(orders []Order) OrderStats {
	stats := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case OrderStatusDelivered:
			stats.Delivered++
		case OrderStatusInTheStash:
			stats.InTheStash++
		case OrderStatusOnTheCourier:
			stats.OnTheCourier++
		}
	}
	return stats
}

// Other is the number of orders with an unrecognised status.
func (s OrderStats) Other() int {
	return s.Total - s.Delivered - s.InTheStash - s.OnTheCourier
}

// TotalValue sums the product price of every order.
func TotalValue(orders []Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.ProductPrice)
	}
	return total
}

// FilterByStatus returns the orders with the given status, keeping their order.
func FilterByStatus(orders []Order, status OrderStatus) []Order {
	var out []Order
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}
