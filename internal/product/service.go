package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordercrm/internal/domain"
	apperrors "ordercrm/internal/errors"
)

const (
	maxNameLength = 200
	maxPriceScale = 2
	// DECIMAL(10,2) holds at most 8 integer digits.
	maxPriceDigits = 8
)

type productService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &productService{repo: repo, logger: logger}
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// GetProductsByIDs splits ids into the products that exist and the ids
// that do not. Duplicated ids are looked up once.
func (s *productService) GetProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[int]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []int
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}

func (s *productService) Create(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	product, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	product.ID = id

	s.logger.Info("product created", zap.Int("productId", id), zap.String("name", product.Name))
	return &product, nil
}

func validateCreate(req CreateProductRequest) (domain.Product, error) {
	var details []apperrors.ValidationDetail

	name := strings.TrimSpace(req.Name)
	if name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	} else if len([]rune(name)) > maxNameLength {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: fmt.Sprintf("name exceeds maximum of %d characters", maxNameLength)})
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	switch {
	case err != nil:
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be a decimal number"})
	case price.IsNegative():
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	case !price.Equal(price.Round(maxPriceScale)):
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: fmt.Sprintf("price must have at most %d decimal places", maxPriceScale)})
	case price.GreaterThanOrEqual(decimal.New(1, maxPriceDigits)):
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price is too large"})
	}

	if !domain.IsValidProductCategory(req.Category) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "category",
			Message: fmt.Sprintf("category must be %q or %q", domain.ProductCategoryIndoor, domain.ProductCategoryOutDoor),
		})
	}

	if len([]rune(req.Description)) > maxNameLength {
		details = append(details, apperrors.ValidationDetail{Field: "description", Message: fmt.Sprintf("description exceeds maximum of %d characters", maxNameLength)})
	}

	if len(details) > 0 {
		return domain.Product{}, apperrors.NewValidationError("invalid product", details...)
	}

	return domain.Product{
		Name:        name,
		Price:       price.Round(maxPriceScale),
		Category:    req.Category,
		Description: req.Description,
	}, nil
}
