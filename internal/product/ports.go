package product

import (
	"context"

	"ordercrm/internal/domain"
)

type Service interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int) (found []domain.Product, notFoundIDs []int, err error)
	Create(ctx context.Context, req CreateProductRequest) (*domain.Product, error)
}

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
	Insert(ctx context.Context, product domain.Product) (int, error)
}
