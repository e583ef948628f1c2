package dto

import (
	"net/url"
	"strings"

	"ordercrm/internal/domain"
)

type CustomerForm struct {
	Name  string
	Phone string
	Email string
}

func CustomerFormFromValues(form url.Values) CustomerForm {
	return CustomerForm{
		Name:  strings.TrimSpace(form.Get("name")),
		Phone: strings.TrimSpace(form.Get("phone")),
		Email: strings.TrimSpace(form.Get("email")),
	}
}

func CustomerFormFromCustomer(c domain.Customer) CustomerForm {
	return CustomerForm{Name: c.Name, Phone: c.Phone, Email: c.Email}
}
