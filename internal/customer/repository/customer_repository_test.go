package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercrm/internal/domain"
	"ordercrm/internal/errors"
	"ordercrm/internal/testutil"
)

// Unit Tests

func TestNewMySQLCustomerRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLCustomerRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestCustomerRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLCustomerRepository(db)
	ctx := context.Background()
	userID := testutil.InsertUser(t, db, "alice", "alice@example.com", "customer")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	id, err := repo.Insert(ctx, tx, domain.Customer{UserID: userID, Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	byID, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, userID, byID.UserID)
	assert.Equal(t, "alice", byID.Name)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.Empty(t, byID.Phone)
	assert.False(t, byID.DateCreated.IsZero())

	byUser, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, id, byUser.ID)
}

func TestCustomerRepository_Insert_SecondProfileConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLCustomerRepository(db)
	ctx := context.Background()
	userID := testutil.InsertUser(t, db, "bob", "", "customer")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.Insert(ctx, tx, domain.Customer{UserID: userID, Name: "bob"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, tx, domain.Customer{UserID: userID, Name: "bob again"})
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestCustomerRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLCustomerRepository(db)

	customer, err := repo.FindByID(context.Background(), 999999)
	assert.Nil(t, customer)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCustomerRepository_ListSummaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLCustomerRepository(db)
	busy := testutil.InsertCustomer(t, db, "busy", "busy@example.com")
	idle := testutil.InsertCustomer(t, db, "idle", "idle@example.com")
	product := testutil.InsertProduct(t, db, "Lamp", "12.50")

	for i := 0; i < 2; i++ {
		_, err := db.Exec(`INSERT INTO orders (customer_id, product_id, status) VALUES (?, ?, 'Delivered')`, busy, product)
		require.NoError(t, err)
	}

	summaries, err := repo.ListSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	counts := map[int]int{}
	for _, s := range summaries {
		counts[s.ID] = s.OrderCount
	}
	assert.Equal(t, 2, counts[busy])
	assert.Equal(t, 0, counts[idle])

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCustomerRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLCustomerRepository(db)
	ctx := context.Background()
	id := testutil.InsertCustomer(t, db, "carol", "carol@example.com")

	err := repo.Update(ctx, domain.Customer{ID: id, Name: "Carol King", Phone: "555-0100", Email: "carol@example.org"})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Carol King", got.Name)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "carol@example.org", got.Email)

	// unchanged values still count as a match
	require.NoError(t, repo.Update(ctx, *got))

	err = repo.Update(ctx, domain.Customer{ID: 999999, Name: "ghost"})
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
