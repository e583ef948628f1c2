package order

import (
	"database/sql"

	"go.uber.org/zap"

	"ordercrm/internal/config"
	customerrepo "ordercrm/internal/customer/repository"
	"ordercrm/internal/infrastructure/mysql"
	"ordercrm/internal/order/controller"
	orderrepo "ordercrm/internal/order/repository"
	"ordercrm/internal/order/service"
	"ordercrm/internal/product"
	productrepo "ordercrm/internal/product/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, render controller.Renderer, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	customerRepo := customerrepo.NewMySQLCustomerRepository(db)
	productSvc := product.NewService(productrepo.NewMySQLProductRepository(db), logger)

	svc := service.NewOrderService(
		mysql.NewTxRunner(db),
		orderRepo,
		customerRepo,
		productSvc,
		logger,
		cfg.Order.TxTimeout,
	)

	return controller.NewOrderController(svc, render, logger)
}
