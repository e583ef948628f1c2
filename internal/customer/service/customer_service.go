package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"ordercrm/internal/domain"
	"ordercrm/internal/dto"
	apperrors "ordercrm/internal/errors"
)

const maxProfileFieldLength = 200

type CustomerRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) error
}

type OrderRepository interface {
	Find(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// CustomerOrders is one customer's order listing. OrderCount and Stats
// always cover every order of the customer; Orders honours the filter.
type CustomerOrders struct {
	Customer   domain.Customer
	Orders     []domain.Order
	OrderCount int
	Stats      domain.OrderStats
}

type CustomerService struct {
	customers CustomerRepository
	orders    OrderRepository
	products  ProductRepository
	logger    *zap.Logger
}

func NewCustomerService(customers CustomerRepository, orders OrderRepository, products ProductRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		orders:    orders,
		products:  products,
		logger:    logger,
	}
}

func (s *CustomerService) Get(ctx context.Context, id int) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *CustomerService) Products(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Orders loads the customer and its orders narrowed by filter. The
// filter's CustomerID is always replaced by id.
func (s *CustomerService) Orders(ctx context.Context, id int, filter domain.OrderFilter) (*CustomerOrders, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.orders.Find(ctx, domain.OrderFilter{CustomerID: &id})
	if err != nil {
		return nil, fmt.Errorf("listing orders of customer %d: %w", id, err)
	}

	result := &CustomerOrders{
		Customer:   *customer,
		Orders:     all,
		OrderCount: len(all),
		Stats:      domain.CountOrders(all),
	}

	if filter.IsZero() {
		return result, nil
	}
	if filter.MatchNone {
		result.Orders = nil
		return result, nil
	}

	filter.CustomerID = &id
	filtered, err := s.orders.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("filtering orders of customer %d: %w", id, err)
	}
	result.Orders = filtered

	return result, nil
}

// UpdateProfile validates form and writes it to the customer's profile.
func (s *CustomerService) UpdateProfile(ctx context.Context, id int, form dto.CustomerForm) (*domain.Customer, error) {
	if err := validateProfile(form); err != nil {
		return nil, err
	}

	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = form.Name
	customer.Phone = form.Phone
	customer.Email = form.Email
	if err := s.customers.Update(ctx, *customer); err != nil {
		return nil, fmt.Errorf("updating customer %d: %w", id, err)
	}

	s.logger.Info("customer profile updated", zap.Int("customerId", id))
	return customer, nil
}

func validateProfile(form dto.CustomerForm) error {
	var details []apperrors.ValidationDetail

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"phone", form.Phone},
		{"email", form.Email},
	}
	for _, f := range fields {
		if n := utf8.RuneCountInString(f.value); n > maxProfileFieldLength {
			details = append(details, apperrors.ValidationDetail{
				Field:   f.name,
				Message: fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", maxProfileFieldLength, n),
			})
		}
	}
	if form.Email != "" && !dto.IsValidEmail(form.Email) {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "Enter a valid email address."})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid profile", details...)
	}
	return nil
}
