package domain

import "time"

type Customer struct {
	ID          int
	UserID      int
	Name        string
	Phone       string
	Email       string
	DateCreated time.Time
}

// CustomerSummary is a customer with the number of orders it owns.
type CustomerSummary struct {
	Customer
	OrderCount int
}
