package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercrm/internal/domain"
	"ordercrm/internal/errors"
	"ordercrm/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestFind_MatchNoneSkipsQuery(t *testing.T) {
	// a zero sql.DB would panic if queried
	repo := NewMySQLOrderRepository(&sql.DB{})

	orders, err := repo.Find(context.Background(), domain.OrderFilter{MatchNone: true})
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

// Integration Tests

func insertOrder(t *testing.T, db *sql.DB, customerID, productID int, status string, created time.Time) uint {
	t.Helper()
	result, err := db.Exec(
		`INSERT INTO orders (customer_id, product_id, status, date_created) VALUES (?, ?, ?, ?)`,
		customerID, productID, status, created,
	)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return uint(id)
}

func TestOrderRepository_FindByID_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	customerID := testutil.InsertCustomer(t, db, "john", "john@example.com")
	productID := testutil.InsertProduct(t, db, "Lamp", "99.99")

	id := insertOrder(t, db, customerID, productID, "On the courier", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, customerID, order.CustomerID)
	assert.Equal(t, productID, order.ProductID)
	assert.Equal(t, domain.OrderStatusOnTheCourier, order.Status)
	assert.Equal(t, "john", order.CustomerName)
	assert.Equal(t, "Lamp", order.ProductName)
	assert.True(t, decimal.RequireFromString("99.99").Equal(order.ProductPrice))
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), uint(9999))
	assert.Error(t, err)
	assert.Nil(t, order)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestOrderRepository_Find_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	alice := testutil.InsertCustomer(t, db, "alice", "alice@example.com")
	bob := testutil.InsertCustomer(t, db, "bob", "bob@example.com")
	lamp := testutil.InsertProduct(t, db, "Lamp", "10.00")
	ball := testutil.InsertProduct(t, db, "Ball", "5.00")

	march1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	march31 := time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC)
	april2 := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)

	a1 := insertOrder(t, db, alice, lamp, "Delivered", march1)
	a2 := insertOrder(t, db, alice, ball, "In the stash", march31)
	a3 := insertOrder(t, db, alice, lamp, "In the stash", april2)
	insertOrder(t, db, bob, lamp, "Delivered", march1)

	stash := domain.OrderStatusInTheStash
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	endExclusive := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	ids := func(orders []domain.Order) []uint {
		out := make([]uint, 0, len(orders))
		for _, o := range orders {
			out = append(out, o.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter domain.OrderFilter
		want   []uint
	}{
		{name: "customer", filter: domain.OrderFilter{CustomerID: &alice}, want: []uint{a3, a2, a1}},
		{name: "customer and status", filter: domain.OrderFilter{CustomerID: &alice, Status: &stash}, want: []uint{a3, a2}},
		{name: "customer and product", filter: domain.OrderFilter{CustomerID: &alice, ProductID: &lamp}, want: []uint{a3, a1}},
		{name: "date range covers whole end day", filter: domain.OrderFilter{CustomerID: &alice, StartDate: &start, EndDate: &endExclusive}, want: []uint{a2, a1}},
		{name: "match none", filter: domain.OrderFilter{CustomerID: &alice, MatchNone: true}, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := repo.Find(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(orders))
		})
	}

	all, err := repo.Find(context.Background(), domain.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestOrderRepository_InsertInTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()
	customerID := testutil.InsertCustomer(t, db, "carol", "carol@example.com")
	productID := testutil.InsertProduct(t, db, "Lamp", "10.00")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	id, err := repo.Insert(ctx, tx, domain.Order{CustomerID: customerID, ProductID: productID, Status: domain.OrderStatusInTheStash})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	_, err = repo.FindByID(ctx, id)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok, "rolled back insert must not be visible")
}

func TestOrderRepository_Insert_MissingProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()
	customerID := testutil.InsertCustomer(t, db, "dave", "dave@example.com")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.Insert(ctx, tx, domain.Order{CustomerID: customerID, ProductID: 999999, Status: domain.OrderStatusDelivered})
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()
	customerID := testutil.InsertCustomer(t, db, "erin", "erin@example.com")
	lamp := testutil.InsertProduct(t, db, "Lamp", "10.00")
	ball := testutil.InsertProduct(t, db, "Ball", "5.00")
	id := insertOrder(t, db, customerID, lamp, "In the stash", time.Now().UTC())

	err := repo.Update(ctx, domain.Order{ID: id, CustomerID: customerID, ProductID: ball, Status: domain.OrderStatusOnTheCourier})
	require.NoError(t, err)

	order, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ball, order.ProductID)
	assert.Equal(t, domain.OrderStatusOnTheCourier, order.Status)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.FindByID(ctx, id)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)

	err = repo.Delete(ctx, id)
	_, ok = errors.IsNotFoundError(err)
	assert.True(t, ok)

	err = repo.Update(ctx, domain.Order{ID: id, CustomerID: customerID, ProductID: ball, Status: domain.OrderStatusDelivered})
	_, ok = errors.IsNotFoundError(err)
	assert.True(t, ok)
}
