package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusDelivered    OrderStatus = "Delivered"
	OrderStatusInTheStash   OrderStatus = "In the stash"
	OrderStatusOnTheCourier OrderStatus = "On the courier"
)

// OrderStatuses lists the statuses in the order they are offered in forms.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusInTheStash, OrderStatusOnTheCourier, OrderStatusDelivered}
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusInTheStash, OrderStatusOnTheCourier:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is a row of the orders table. CustomerName, ProductName and
// ProductPrice are filled by the listing queries that join customers and
// products; they are ignored on writes.
type Order struct {
	ID          uint
	CustomerID  int
	ProductID   int
	Status      OrderStatus
	DateCreated time.Time

	CustomerName string
	ProductName  string
	ProductPrice decimal.Decimal
}

// OrderFilter narrows an order listing. Nil fields do not constrain the
// result. MatchNone is set when a filter value can never match, in which
// case the listing is empty.
type OrderFilter struct {
	CustomerID *int
	Status     *OrderStatus
	ProductID  *int
	StartDate  *time.Time
	EndDate    *time.Time
	MatchNone  bool
}

func (f OrderFilter) IsZero() bool {
	return f.CustomerID == nil && f.Status == nil && f.ProductID == nil &&
		f.StartDate == nil && f.EndDate == nil && !f.MatchNone
}
