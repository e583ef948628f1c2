package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercrm/internal/domain"
	"ordercrm/internal/errors"
	"ordercrm/internal/testutil"
)

// Unit Tests

func TestNewMySQLProductRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLProductRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestFindByIDs_EmptyInput(t *testing.T) {
	repo := NewMySQLProductRepository(&sql.DB{})

	products, err := repo.FindByIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, products)
}

// Integration Tests

func TestProductRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, domain.Product{
		Name:        "Ball",
		Price:       decimal.RequireFromString("9.99"),
		Category:    domain.ProductCategoryOutDoor,
		Description: "A ball",
	})
	require.NoError(t, err)

	p, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ball", p.Name)
	assert.True(t, decimal.RequireFromString("9.99").Equal(p.Price))
	assert.Equal(t, domain.ProductCategoryOutDoor, p.Category)
	assert.Equal(t, "A ball", p.Description)
	assert.False(t, p.DateCreated.IsZero())
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)

	p, err := repo.FindByID(context.Background(), 999999)
	assert.Nil(t, p)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestProductRepository_FindByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	first := testutil.InsertProduct(t, db, "Lamp", "10.00")
	second := testutil.InsertProduct(t, db, "Chair", "20.00")

	products, err := repo.FindByIDs(context.Background(), []int{second, first, 999999})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, first, products[0].ID)
	assert.Equal(t, second, products[1].ID)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Chair", all[0].Name)
}
