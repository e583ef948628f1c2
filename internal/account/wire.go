package account

import (
	"database/sql"

	"go.uber.org/zap"

	"ordercrm/internal/account/controller"
	userrepo "ordercrm/internal/account/repository"
	"ordercrm/internal/account/service"
	customerrepo "ordercrm/internal/customer/repository"
	"ordercrm/internal/infrastructure/mysql"
)

func NewService(db *sql.DB, logger *zap.Logger) *service.AccountService {
	return service.NewAccountService(
		mysql.NewTxRunner(db),
		userrepo.NewMySQLUserRepository(db),
		customerrepo.NewMySQLCustomerRepository(db),
		logger,
	)
}

func NewModule(db *sql.DB, sessions controller.SessionStore, render controller.Renderer, logger *zap.Logger) *controller.AccountController {
	return controller.NewAccountController(NewService(db, logger), sessions, render, logger)
}
