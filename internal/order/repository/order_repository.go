package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ordercrm/internal/domain"
	"ordercrm/internal/errors"
	"ordercrm/internal/infrastructure/mysql"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const selectOrders = `
	SELECT o.id, o.customer_id, o.product_id, o.status, o.date_created,
	       c.name, p.name, p.price
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	JOIN products p ON p.id = o.product_id`

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := selectOrders + ` WHERE o.id = ?`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.ProductID, &order.Status, &order.DateCreated,
		&order.CustomerName, &order.ProductName, &order.ProductPrice,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

// Find lists the orders matching filter, newest first.
func (r *MySQLOrderRepository) Find(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.MatchNone {
		return nil, nil
	}

	var conditions []string
	var args []interface{}

	if filter.CustomerID != nil {
		conditions = append(conditions, "o.customer_id = ?")
		args = append(args, *filter.CustomerID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "o.status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.ProductID != nil {
		conditions = append(conditions, "o.product_id = ?")
		args = append(args, *filter.ProductID)
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "o.date_created >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "o.date_created < ?")
		args = append(args, *filter.EndDate)
	}

	query := selectOrders
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY o.date_created DESC, o.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.ID, &o.CustomerID, &o.ProductID, &o.Status, &o.DateCreated,
			&o.CustomerName, &o.ProductName, &o.ProductPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	query := `INSERT INTO orders (customer_id, product_id, status) VALUES (?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, order.CustomerID, order.ProductID, string(order.Status))
	if err != nil {
		if mysql.IsMissingReference(err) {
			return 0, errors.NewNotFoundError(fmt.Sprintf("customer %d or product %d not found", order.CustomerID, order.ProductID))
		}
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting order id: %w", err)
	}

	return uint(id), nil
}

// Update writes the customer, product and status of order.
func (r *MySQLOrderRepository) Update(ctx context.Context, order domain.Order) error {
	query := `UPDATE orders SET customer_id = ?, product_id = ?, status = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, order.CustomerID, order.ProductID, string(order.Status), order.ID)
	if err != nil {
		if mysql.IsMissingReference(err) {
			return errors.NewNotFoundError(fmt.Sprintf("customer %d or product %d not found", order.CustomerID, order.ProductID))
		}
		return fmt.Errorf("updating order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", order.ID))
	}

	return nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}
