package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ordercrm/internal/domain"
	"ordercrm/internal/errors"
)

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

const productColumns = `id, name, price, category, description, date_created`

func (r *MySQLProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *MySQLProductRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &p.DateCreated,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

// FindByIDs returns the products among ids that exist, ordered by id.
// Missing ids are silently absent from the result.
func (r *MySQLProductRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT `+productColumns+`
		FROM products
		WHERE id IN (%s)
		ORDER BY id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *MySQLProductRepository) Insert(ctx context.Context, product domain.Product) (int, error) {
	query := `INSERT INTO products (name, price, category, description) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, product.Name, product.Price, product.Category, product.Description)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting product id: %w", err)
	}

	return int(id), nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &p.DateCreated)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}
