package customer

import (
	"database/sql"

	"go.uber.org/zap"

	"ordercrm/internal/customer/controller"
	customerrepo "ordercrm/internal/customer/repository"
	"ordercrm/internal/customer/service"
	orderrepo "ordercrm/internal/order/repository"
	productrepo "ordercrm/internal/product/repository"
)

func NewModule(db *sql.DB, flashes controller.FlashStore, render controller.Renderer, logger *zap.Logger) *controller.CustomerController {
	customerRepo := customerrepo.NewMySQLCustomerRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	productRepo := productrepo.NewMySQLProductRepository(db)

	svc := service.NewCustomerService(customerRepo, orderRepo, productRepo, logger)

	return controller.NewCustomerController(svc, flashes, render, logger)
}
