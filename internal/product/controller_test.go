package product

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ordercrm/internal/domain"
	"ordercrm/internal/view"
)

type mockService struct {
	ListFunc func(ctx context.Context) ([]domain.Product, error)
}

func (m *mockService) List(ctx context.Context) ([]domain.Product, error) {
	return m.ListFunc(ctx)
}

func (m *mockService) GetProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	return nil, nil, errors.New("not used")
}

func (m *mockService) Create(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	return nil, errors.New("not used")
}

type mockRenderer struct {
	name   string
	page   view.Page
	failed error
}

func (m *mockRenderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page) {
	m.name = name
	m.page = page
	w.WriteHeader(status)
}

func (m *mockRenderer) Fail(w http.ResponseWriter, r *http.Request, err error) {
	m.failed = err
	w.WriteHeader(http.StatusInternalServerError)
}

func TestHandleListProducts(t *testing.T) {
	svc := &mockService{
		ListFunc: func(ctx context.Context) ([]domain.Product, error) {
			return []domain.Product{{ID: 1, Name: "Lamp"}, {ID: 2, Name: "Ball"}}, nil
		},
	}
	render := &mockRenderer{}
	c := NewController(svc, render, zap.NewNop())

	rec := httptest.NewRecorder()
	c.HandleListProducts(rec, httptest.NewRequest(http.MethodGet, "/products/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "products.html", render.name)
	data, ok := render.page.Data.(listPageData)
	require.True(t, ok)
	assert.Len(t, data.Products, 2)
}

func TestHandleListProducts_Error(t *testing.T) {
	svc := &mockService{
		ListFunc: func(ctx context.Context) ([]domain.Product, error) {
			return nil, errors.New("db down")
		},
	}
	render := &mockRenderer{}
	c := NewController(svc, render, zap.NewNop())

	rec := httptest.NewRecorder()
	c.HandleListProducts(rec, httptest.NewRequest(http.MethodGet, "/products/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.EqualError(t, render.failed, "db down")
}
