package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ordercrm/internal/domain"
	"ordercrm/internal/errors"
	"ordercrm/internal/infrastructure/mysql"
)

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

const customerColumns = `c.id, c.user_id, c.name, c.phone, c.email, c.date_created`

func scanCustomer(row interface{ Scan(...any) error }, c *domain.Customer, extra ...any) error {
	dest := append([]any{&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Email, &c.DateCreated}, extra...)
	return row.Scan(dest...)
}

func (r *MySQLCustomerRepository) Insert(ctx context.Context, tx *sql.Tx, customer domain.Customer) (int, error) {
	query := `INSERT INTO customers (user_id, name, phone, email) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, customer.UserID, customer.Name, customer.Phone, customer.Email)
	if err != nil {
		if mysql.IsDuplicateEntry(err) {
			return 0, errors.NewConflictError(fmt.Sprintf("user %d already has a customer profile", customer.UserID))
		}
		return 0, fmt.Errorf("inserting customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting customer id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLCustomerRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = ?`

	var customer domain.Customer
	err := scanCustomer(r.db.QueryRowContext(ctx, query, id), &customer)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by id: %w", err)
	}

	return &customer, nil
}

func (r *MySQLCustomerRepository) FindByUserID(ctx context.Context, userID int) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE c.user_id = ?`

	var customer domain.Customer
	err := scanCustomer(r.db.QueryRowContext(ctx, query, userID), &customer)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer for user %d not found", userID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by user id: %w", err)
	}

	return &customer, nil
}

func (r *MySQLCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c ORDER BY c.name, c.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning customer row: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, nil
}

// ListSummaries returns every customer with its order count, customers
// without orders included.
func (r *MySQLCustomerRepository) ListSummaries(ctx context.Context) ([]domain.CustomerSummary, error) {
	query := `
		SELECT ` + customerColumns + `, COUNT(o.id)
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id
		GROUP BY c.id, c.user_id, c.name, c.phone, c.email, c.date_created
		ORDER BY c.name, c.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying customer summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.CustomerSummary
	for rows.Next() {
		var s domain.CustomerSummary
		if err := scanCustomer(rows, &s.Customer, &s.OrderCount); err != nil {
			return nil, fmt.Errorf("scanning customer summary row: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer summary rows: %w", err)
	}

	return summaries, nil
}

// Update writes the editable profile fields of customer.
func (r *MySQLCustomerRepository) Update(ctx context.Context, customer domain.Customer) error {
	query := `UPDATE customers SET name = ?, phone = ?, email = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, customer.Name, customer.Phone, customer.Email, customer.ID)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", customer.ID))
	}

	return nil
}
