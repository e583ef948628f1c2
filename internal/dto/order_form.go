package dto

import (
	"net/url"
	"strconv"

	"ordercrm/internal/domain"
)

// OrderForm carries the raw values of the single-order edit screen.
type OrderForm struct {
	Customer string
	Product  string
	Status   string
}

func OrderFormFromValues(form url.Values) OrderForm {
	return OrderForm{
		Customer: form.Get("customer"),
		Product:  form.Get("product"),
		Status:   form.Get("status"),
	}
}

func OrderFormFromOrder(o domain.Order) OrderForm {
	return OrderForm{
		Customer: strconv.Itoa(o.CustomerID),
		Product:  strconv.Itoa(o.ProductID),
		Status:   string(o.Status),
	}
}
