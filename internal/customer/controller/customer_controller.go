package controller

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"ordercrm/internal/auth"
	"ordercrm/internal/customer/service"
	"ordercrm/internal/domain"
	"ordercrm/internal/dto"
	apperrors "ordercrm/internal/errors"
	"ordercrm/internal/infrastructure/logger"
	"ordercrm/internal/view"
)

type CustomerService interface {
	Get(ctx context.Context, id int) (*domain.Customer, error)
	Orders(ctx context.Context, id int, filter domain.OrderFilter) (*service.CustomerOrders, error)
	Products(ctx context.Context) ([]domain.Product, error)
	UpdateProfile(ctx context.Context, id int, form dto.CustomerForm) (*domain.Customer, error)
}

type FlashStore interface {
	AddFlash(w http.ResponseWriter, r *http.Request, f auth.Flash) error
}

type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page)
	Fail(w http.ResponseWriter, r *http.Request, err error)
}

type CustomerController struct {
	service CustomerService
	flashes FlashStore
	render  Renderer
	logger  *zap.Logger
}

func NewCustomerController(service CustomerService, flashes FlashStore, render Renderer, logger *zap.Logger) *CustomerController {
	return &CustomerController{
		service: service,
		flashes: flashes,
		render:  render,
		logger:  logger,
	}
}

type customerPageData struct {
	Customer   domain.Customer
	Orders     []domain.Order
	OrderCount int
	Products   []domain.Product
	Statuses   []domain.OrderStatus
}

// Customer is the admin view of one customer with the order filter.
func (c *CustomerController) Customer(w http.ResponseWriter, r *http.Request) {
	id, err := view.PathID(r, "id")
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	query := r.URL.Query()
	result, err := c.service.Orders(r.Context(), id, dto.ParseOrderFilter(query))
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	products, err := c.service.Products(r.Context())
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	page := view.NewPage(r, "Customer", customerPageData{
		Customer:   result.Customer,
		Orders:     result.Orders,
		OrderCount: result.OrderCount,
		Products:   products,
		Statuses:   domain.OrderStatuses(),
	})
	page.Values = query
	c.render.HTML(w, r, http.StatusOK, "customer.html", page)
}

type userPageData struct {
	Customer domain.Customer
	Orders   []domain.Order
	Stats    domain.OrderStats
}

// UserPage lists the logged-in customer's own orders.
func (c *CustomerController) UserPage(w http.ResponseWriter, r *http.Request) {
	id, ok := c.ownCustomerID(w, r, "/user/%d/")
	if !ok {
		return
	}

	result, err := c.service.Orders(r.Context(), id, domain.OrderFilter{})
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	c.render.HTML(w, r, http.StatusOK, "user.html", view.NewPage(r, "My orders", userPageData{
		Customer: result.Customer,
		Orders:   result.Orders,
		Stats:    result.Stats,
	}))
}

type accountPageData struct {
	Customer domain.Customer
	Form     dto.CustomerForm
}

func (c *CustomerController) AccountSettingsPage(w http.ResponseWriter, r *http.Request) {
	id, ok := c.ownCustomerID(w, r, "/account/%d/")
	if !ok {
		return
	}

	customer, err := c.service.Get(r.Context(), id)
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	c.render.HTML(w, r, http.StatusOK, "account_settings.html", view.NewPage(r, "Account settings", accountPageData{
		Customer: *customer,
		Form:     dto.CustomerFormFromCustomer(*customer),
	}))
}

func (c *CustomerController) AccountSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := c.ownCustomerID(w, r, "/account/%d/")
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		c.render.Fail(w, r, err)
		return
	}
	form := dto.CustomerFormFromValues(r.PostForm)

	_, err := c.service.UpdateProfile(r.Context(), id, form)
	if err != nil {
		ve, isValidation := apperrors.IsValidationError(err)
		if !isValidation {
			c.render.Fail(w, r, err)
			return
		}

		customer, err := c.service.Get(r.Context(), id)
		if err != nil {
			c.render.Fail(w, r, err)
			return
		}
		page := view.NewPage(r, "Account settings", accountPageData{Customer: *customer, Form: form}).WithValidation(ve)
		c.render.HTML(w, r, http.StatusOK, "account_settings.html", page)
		return
	}

	if err := c.flashes.AddFlash(w, r, auth.Flash{Type: auth.FlashSuccess, Message: "Your profile has been updated."}); err != nil {
		logger.ForContext(r.Context(), c.logger).Warn("saving flash", zap.Error(err))
	}
	http.Redirect(w, r, fmt.Sprintf("/account/%d/", id), http.StatusSeeOther)
}

// ownCustomerID returns the path id when it is the principal's own customer
// id. Otherwise the response is already written: 404 for a malformed id, a
// redirect to pathFormat for the principal's own id for a foreign one.
func (c *CustomerController) ownCustomerID(w http.ResponseWriter, r *http.Request, pathFormat string) (int, bool) {
	id, err := view.PathID(r, "id")
	if err != nil {
		c.render.Fail(w, r, err)
		return 0, false
	}

	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok || principal.CustomerID == 0 {
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return 0, false
	}

	if principal.CustomerID != id {
		logger.ForContext(r.Context(), c.logger).Info("customer id mismatch",
			zap.Int("requested", id),
			zap.Int("customerId", principal.CustomerID),
		)
		http.Redirect(w, r, fmt.Sprintf(pathFormat, principal.CustomerID), http.StatusSeeOther)
		return 0, false
	}

	return id, true
}
