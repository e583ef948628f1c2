package report

import (
	"database/sql"

	"go.uber.org/zap"

	customerrepo "ordercrm/internal/customer/repository"
	orderrepo "ordercrm/internal/order/repository"
)

func NewModule(db *sql.DB, pages ErrorPages, logger *zap.Logger) *Controller {
	svc := NewService(
		orderrepo.NewMySQLOrderRepository(db),
		customerrepo.NewMySQLCustomerRepository(db),
		logger,
	)
	return NewController(svc, NewPDFRenderer(), pages, logger)
}
