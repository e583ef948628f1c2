package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"ordercrm/internal/infrastructure/mysql"
)

// SetupTestDB opens the ordercrm_test database on localhost:3306 and skips
// the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/ordercrm_test?parseTime=true&clientFoundRows=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the application migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := mysql.Migrate(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties the data tables, keeping the seeded groups, and
// closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"orders", "customers", "products", "users"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// InsertUser creates a user in the named group and returns its id.
func InsertUser(t *testing.T, db *sql.DB, username, email, group string) int {
	res, err := db.Exec(`
		INSERT INTO users (username, email, password_hash, group_id)
		SELECT ?, ?, 'x', id FROM auth_groups WHERE name = ?`, username, email, group)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read user id: %v", err)
	}
	return int(id)
}

// InsertCustomer creates a user in the customer group plus its customer row
// and returns the customer id.
func InsertCustomer(t *testing.T, db *sql.DB, name, email string) int {
	userID := InsertUser(t, db, name, email, "customer")
	res, err := db.Exec(`INSERT INTO customers (user_id, name, email) VALUES (?, ?, ?)`, userID, name, email)
	if err != nil {
		t.Fatalf("failed to insert customer: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read customer id: %v", err)
	}
	return int(id)
}

// InsertProduct creates a product and returns its id.
func InsertProduct(t *testing.T, db *sql.DB, name, price string) int {
	res, err := db.Exec(`INSERT INTO products (name, price, category) VALUES (?, ?, 'Indoor')`, name, price)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return int(id)
}
