package controller

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"ordercrm/internal/auth"
	"ordercrm/internal/domain"
	"ordercrm/internal/dto"
	apperrors "ordercrm/internal/errors"
	"ordercrm/internal/infrastructure/logger"
	"ordercrm/internal/order/service"
	"ordercrm/internal/view"
)

type OrderService interface {
	Dashboard(ctx context.Context) (*service.Dashboard, error)
	Customer(ctx context.Context, id int) (*domain.Customer, error)
	FormOptions(ctx context.Context) (*service.FormOptions, error)
	CreateForCustomer(ctx context.Context, customerID int, formset dto.OrderFormset) ([]uint, error)
	CreateAsCustomer(ctx context.Context, customerID int, formset dto.OrderFormset) ([]uint, error)
	Get(ctx context.Context, id uint) (*domain.Order, error)
	Update(ctx context.Context, id uint, form dto.OrderForm) (*domain.Order, error)
	Delete(ctx context.Context, id uint) error
}

type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page)
	Fail(w http.ResponseWriter, r *http.Request, err error)
}

type OrderController struct {
	service OrderService
	render  Renderer
	logger  *zap.Logger
}

func NewOrderController(service OrderService, render Renderer, logger *zap.Logger) *OrderController {
	return &OrderController{
		service: service,
		render:  render,
		logger:  logger,
	}
}

// Dashboard is the admin home page.
func (c *OrderController) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := c.service.Dashboard(r.Context())
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}
	c.render.HTML(w, r, http.StatusOK, "dashboard.html", view.NewPage(r, "Dashboard", dashboard))
}

type orderFormData struct {
	Customer   domain.Customer
	Formset    dto.OrderFormset
	Products   []domain.Product
	Statuses   []domain.OrderStatus
	ShowStatus bool
	Action     string
}

// formsetMode distinguishes the admin formset from the one a customer fills
// in for itself.
type formsetMode struct {
	showStatus    bool
	initialStatus string
	action        string
	success       string
	create        func(ctx context.Context, customerID int, formset dto.OrderFormset) ([]uint, error)
}

func (c *OrderController) adminMode() formsetMode {
	return formsetMode{
		showStatus: true,
		action:     "/create_order/%d/",
		success:    "/",
		create:     c.service.CreateForCustomer,
	}
}

func (c *OrderController) customerMode() formsetMode {
	return formsetMode{
		initialStatus: string(domain.OrderStatusInTheStash),
		action:        "/customer_create_order/%d/",
		success:       "/user/%d/",
		create:        c.service.CreateAsCustomer,
	}
}

func (c *OrderController) CreateOrderPage(w http.ResponseWriter, r *http.Request) {
	id, err := view.PathID(r, "id")
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}
	c.showFormset(w, r, id, c.adminMode(), dto.NewOrderFormset(dto.DefaultExtraOrderRows, ""), nil)
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := view.PathID(r, "id")
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}
	c.submitFormset(w, r, id, c.adminMode())
}

func (c *OrderController) CustomerCreateOrderPage(w http.ResponseWriter, r *http.Request) {
	id, ok := c.ownCustomerID(w, r)
	if !ok {
		return
	}
	mode := c.customerMode()
	c.showFormset(w, r, id, mode, dto.NewOrderFormset(dto.DefaultExtraOrderRows, mode.initialStatus), nil)
}

func (c *OrderController) CustomerCreateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := c.ownCustomerID(w, r)
	if !ok {
		return
	}
	c.submitFormset(w, r, id, c.customerMode())
}

func (c *OrderController) submitFormset(w http.ResponseWriter, r *http.Request, customerID int, mode formsetMode) {
	if err := r.ParseForm(); err != nil {
		c.render.Fail(w, r, err)
		return
	}

	formset, err := dto.ParseOrderFormset(r.PostForm)
	if err == nil {
		_, err = mode.create(r.Context(), customerID, formset)
	}
	if err != nil {
		ve, isValidation := apperrors.IsValidationError(err)
		if !isValidation {
			c.render.Fail(w, r, err)
			return
		}
		if len(formset.Rows) == 0 {
			formset = dto.NewOrderFormset(dto.DefaultExtraOrderRows, mode.initialStatus)
		}
		c.showFormset(w, r, customerID, mode, formset, ve)
		return
	}

	target := mode.success
	if mode.success != "/" {
		target = fmt.Sprintf(mode.success, customerID)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (c *OrderController) showFormset(w http.ResponseWriter, r *http.Request, customerID int, mode formsetMode, formset dto.OrderFormset, ve *apperrors.ValidationError) {
	customer, err := c.service.Customer(r.Context(), customerID)
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	opts, err := c.service.FormOptions(r.Context())
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	page := view.NewPage(r, "Place order", orderFormData{
		Customer:   *customer,
		Formset:    formset,
		Products:   opts.Products,
		Statuses:   opts.Statuses,
		ShowStatus: mode.showStatus,
		Action:     fmt.Sprintf(mode.action, customerID),
	})
	if ve != nil {
		page = page.WithValidation(ve)
	}
	c.render.HTML(w, r, http.StatusOK, "order_form.html", page)
}

type updateFormData struct {
	Order     domain.Order
	Form      dto.OrderForm
	Customers []domain.Customer
	Products  []domain.Product
	Statuses  []domain.OrderStatus
}

func (c *OrderController) UpdateOrderPage(w http.ResponseWriter, r *http.Request) {
	order, ok := c.loadOrder(w, r)
	if !ok {
		return
	}
	c.showUpdateForm(w, r, *order, dto.OrderFormFromOrder(*order), nil)
}

func (c *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := c.loadOrder(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		c.render.Fail(w, r, err)
		return
	}
	form := dto.OrderFormFromValues(r.PostForm)

	if _, err := c.service.Update(r.Context(), order.ID, form); err != nil {
		ve, isValidation := apperrors.IsValidationError(err)
		if !isValidation {
			c.render.Fail(w, r, err)
			return
		}
		c.showUpdateForm(w, r, *order, form, ve)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *OrderController) showUpdateForm(w http.ResponseWriter, r *http.Request, order domain.Order, form dto.OrderForm, ve *apperrors.ValidationError) {
	opts, err := c.service.FormOptions(r.Context())
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	page := view.NewPage(r, "Update order", updateFormData{
		Order:     order,
		Form:      form,
		Customers: opts.Customers,
		Products:  opts.Products,
		Statuses:  opts.Statuses,
	})
	if ve != nil {
		page = page.WithValidation(ve)
	}
	c.render.HTML(w, r, http.StatusOK, "update_order_form.html", page)
}

type deletePageData struct {
	Order domain.Order
}

// DeleteOrderPage asks for confirmation. It never deletes.
func (c *OrderController) DeleteOrderPage(w http.ResponseWriter, r *http.Request) {
	order, ok := c.loadOrder(w, r)
	if !ok {
		return
	}
	c.render.HTML(w, r, http.StatusOK, "delete.html", view.NewPage(r, "Delete order", deletePageData{Order: *order}))
}

func (c *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := view.PathID(r, "id")
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	if err := c.service.Delete(r.Context(), uint(id)); err != nil {
		c.render.Fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *OrderController) loadOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	id, err := view.PathID(r, "id")
	if err != nil {
		c.render.Fail(w, r, err)
		return nil, false
	}

	order, err := c.service.Get(r.Context(), uint(id))
	if err != nil {
		c.render.Fail(w, r, err)
		return nil, false
	}
	return order, true
}

// ownCustomerID accepts the path id only when it is the logged-in
// customer's own. Foreign ids are redirected to the customer's own form.
func (c *OrderController) ownCustomerID(w http.ResponseWriter, r *http.Request) (int, bool) {
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
		http.Redirect(w, r, fmt.Sprintf("/customer_create_order/%d/", principal.CustomerID), http.StatusSeeOther)
		return 0, false
	}

	return id, true
}
