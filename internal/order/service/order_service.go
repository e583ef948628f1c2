package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ordercrm/internal/domain"
	"ordercrm/internal/dto"
	apperrors "ordercrm/internal/errors"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgMinimumForms  = "Please submit at least 1 form."
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	Find(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error)
	Update(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id uint) error
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	ListSummaries(ctx context.Context) ([]domain.CustomerSummary, error)
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int) (found []domain.Product, notFoundIDs []int, err error)
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Dashboard is the admin overview. Stats covers every order.
type Dashboard struct {
	Customers     []domain.CustomerSummary
	OrdersInStash []domain.Order
	Stats         domain.OrderStats
}

// FormOptions are the choices offered by the order forms.
type FormOptions struct {
	Customers []domain.Customer
	Products  []domain.Product
	Statuses  []domain.OrderStatus
}

type OrderService struct {
	txRunner  TxRunner
	orders    OrderRepository
	customers CustomerRepository
	products  ProductService
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewOrderService(
	txRunner TxRunner,
	orders OrderRepository,
	customers CustomerRepository,
	products ProductService,
	logger *zap.Logger,
	txTimeout time.Duration,
) *OrderService {
	return &OrderService{
		txRunner:  txRunner,
		orders:    orders,
		customers: customers,
		products:  products,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

func (s *OrderService) Dashboard(ctx context.Context) (*Dashboard, error) {
	orders, err := s.orders.Find(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	customers, err := s.customers.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	return &Dashboard{
		Customers:     customers,
		OrdersInStash: domain.FilterByStatus(orders, domain.OrderStatusInTheStash),
		Stats:         domain.CountOrders(orders),
	}, nil
}

func (s *OrderService) Customer(ctx context.Context, id int) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *OrderService) FormOptions(ctx context.Context) (*FormOptions, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return &FormOptions{
		Customers: customers,
		Products:  products,
		Statuses:  domain.OrderStatuses(),
	}, nil
}

// CreateForCustomer inserts one order per non-empty formset row, each with
// its own product and status. Either every row is inserted or none is.
func (s *OrderService) CreateForCustomer(ctx context.Context, customerID int, formset dto.OrderFormset) ([]uint, error) {
	return s.createBatch(ctx, customerID, formset, nil)
}

// CreateAsCustomer is CreateForCustomer for a customer ordering for
// itself: rows carry a product only and every order starts in the stash.
func (s *OrderService) CreateAsCustomer(ctx context.Context, customerID int, formset dto.OrderFormset) ([]uint, error) {
	stash := domain.OrderStatusInTheStash
	return s.createBatch(ctx, customerID, formset, &stash)
}

func (s *OrderService) createBatch(ctx context.Context, customerID int, formset dto.OrderFormset, forcedStatus *domain.OrderStatus) ([]uint, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	orders, err := s.validateRows(ctx, customerID, formset, forcedStatus)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	ids := make([]uint, 0, len(orders))
	err = s.txRunner.WithinTx(txCtx, func(tx *sql.Tx) error {
		for _, o := range orders {
			id, err := s.orders.Insert(txCtx, tx, o)
			if err != nil {
				s.logger.Error("failed to insert order", zap.Int("customerId", customerID), zap.Int("productId", o.ProductID), zap.Error(err))
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("creating orders for customer %d", customerID), err)
	}

	s.logger.Info("orders created", zap.Int("customerId", customerID), zap.Int("count", len(ids)))
	return ids, nil
}

// validateRows turns the non-empty rows into orders. Every problem is
// reported against the row's own field name.
func (s *OrderService) validateRows(ctx context.Context, customerID int, formset dto.OrderFormset, forcedStatus *domain.OrderStatus) ([]domain.Order, error) {
	type candidate struct {
		row       dto.OrderRow
		productID int
		status    domain.OrderStatus
	}

	var details []apperrors.ValidationDetail
	var candidates []candidate
	var productIDs []int

	for _, row := range formset.Rows {
		status := domain.OrderStatus(row.Status)
		if forcedStatus != nil {
			status = *forcedStatus
			if row.Product == "" {
				continue
			}
		} else if row.Product == "" && row.Status == "" {
			continue
		}

		c := candidate{row: row, status: status}
		rowValid := true

		if row.Product == "" {
			details = append(details, apperrors.ValidationDetail{Field: row.ProductField(), Message: msgRequired})
			rowValid = false
		} else if id, err := strconv.Atoi(row.Product); err != nil || id <= 0 {
			details = append(details, apperrors.ValidationDetail{Field: row.ProductField(), Message: msgInvalidChoice})
			rowValid = false
		} else {
			c.productID = id
		}

		if forcedStatus == nil {
			if row.Status == "" {
				details = append(details, apperrors.ValidationDetail{Field: row.StatusField(), Message: msgRequired})
				rowValid = false
			} else if !status.IsValid() {
				details = append(details, apperrors.ValidationDetail{Field: row.StatusField(), Message: msgInvalidChoice})
				rowValid = false
			}
		}

		if c.productID > 0 {
			productIDs = append(productIDs, c.productID)
		}
		if rowValid {
			candidates = append(candidates, c)
		}
	}

	if len(productIDs) > 0 {
		_, notFound, err := s.products.GetProductsByIDs(ctx, productIDs)
		if err != nil {
			return nil, fmt.Errorf("looking up products: %w", err)
		}
		missing := make(map[int]bool, len(notFound))
		for _, id := range notFound {
			missing[id] = true
		}
		for _, row := range formset.Rows {
			if id, err := strconv.Atoi(row.Product); err == nil && missing[id] {
				details = append(details, apperrors.ValidationDetail{Field: row.ProductField(), Message: msgInvalidChoice})
			}
		}
	}

	if len(details) == 0 && len(candidates) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: apperrors.NonFieldError, Message: msgMinimumForms})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid orders", details...)
	}

	orders := make([]domain.Order, 0, len(candidates))
	for _, c := range candidates {
		orders = append(orders, domain.Order{
			CustomerID: customerID,
			ProductID:  c.productID,
			Status:     c.status,
		})
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// Update replaces the customer, product and status of order id with the
// values of form.
func (s *OrderService) Update(ctx context.Context, id uint, form dto.OrderForm) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var details []apperrors.ValidationDetail

	customerID, detail := parseChoice("customer", form.Customer)
	if detail != nil {
		details = append(details, *detail)
	} else if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return nil, fmt.Errorf("looking up customer: %w", err)
		}
		details = append(details, apperrors.ValidationDetail{Field: "customer", Message: msgInvalidChoice})
	}

	productID, detail := parseChoice("product", form.Product)
	if detail != nil {
		details = append(details, *detail)
	} else {
		_, notFound, err := s.products.GetProductsByIDs(ctx, []int{productID})
		if err != nil {
			return nil, fmt.Errorf("looking up product: %w", err)
		}
		if len(notFound) > 0 {
			details = append(details, apperrors.ValidationDetail{Field: "product", Message: msgInvalidChoice})
		}
	}

	status := domain.OrderStatus(form.Status)
	if form.Status == "" {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: msgRequired})
	} else if !status.IsValid() {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: msgInvalidChoice})
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid order", details...)
	}

	order.CustomerID = customerID
	order.ProductID = productID
	order.Status = status
	if err := s.orders.Update(ctx, *order); err != nil {
		return nil, fmt.Errorf("updating order %d: %w", id, err)
	}

	s.logger.Info("order updated", zap.Uint("orderId", id), zap.String("status", string(status)))
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("order deleted", zap.Uint("orderId", id))
	return nil
}

func parseChoice(field, raw string) (int, *apperrors.ValidationDetail) {
	if raw == "" {
		return 0, &apperrors.ValidationDetail{Field: field, Message: msgRequired}
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &apperrors.ValidationDetail{Field: field, Message: msgInvalidChoice}
	}
	return id, nil
}
