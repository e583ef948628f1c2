package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordercrm/internal/domain"
	"ordercrm/internal/infrastructure/logger"
)

// Report is the order listing handed to a Renderer.
type Report struct {
	Orders      []domain.Order
	Customers   []domain.Customer
	TotalOrders int
	TotalValue  decimal.Decimal
	Stats       domain.OrderStats
	GeneratedAt time.Time
}

// Filename is the download name, e.g. Order_Report_2024-05-01.pdf.
func (r Report) Filename() string {
	return fmt.Sprintf("Order_Report_%s.pdf", r.GeneratedAt.Format("2006-01-02"))
}

type OrderRepository interface {
	Find(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
}

type Service struct {
	orders    OrderRepository
	customers CustomerRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(orders OrderRepository, customers CustomerRepository, logger *zap.Logger) *Service {
	return &Service{
		orders:    orders,
		customers: customers,
		logger:    logger,
		now:       time.Now,
	}
}

// Build collects every order and customer.
func (s *Service) Build(ctx context.Context) (*Report, error) {
	orders, err := s.orders.Find(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	stats := domain.CountOrders(orders)
	report := &Report{
		Orders:      orders,
		Customers:   customers,
		TotalOrders: stats.Total,
		TotalValue:  domain.TotalValue(orders),
		Stats:       stats,
		GeneratedAt: s.now(),
	}

	logger.ForContext(ctx, s.logger).Debug("report built",
		zap.Int("orders", report.TotalOrders),
		zap.Int("customers", len(customers)),
	)
	return report, nil
}
