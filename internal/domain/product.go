package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductCategoryIndoor  = "Indoor"
	ProductCategoryOutDoor = "Out Door"
)

func IsValidProductCategory(category string) bool {
	return category == ProductCategoryIndoor || category == ProductCategoryOutDoor
}

type Product struct {
	ID          int
	Name        string
	Price       decimal.Decimal
	Category    string
	Description string
	DateCreated time.Time
}
