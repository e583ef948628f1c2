package product

import (
	"database/sql"

	"go.uber.org/zap"

	"ordercrm/internal/product/repository"
)

func NewModule(db *sql.DB, render Renderer, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLProductRepository(db)
	svc := NewService(repo, logger)
	return NewController(svc, render, logger)
}
