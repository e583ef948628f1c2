package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ordercrm/internal/domain"
	"ordercrm/internal/errors"
	"ordercrm/internal/infrastructure/mysql"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Insert creates user in the group named by user.Role.
func (r *MySQLUserRepository) Insert(ctx context.Context, tx *sql.Tx, user domain.User) (int, error) {
	query := `
		INSERT INTO users (username, email, password_hash, group_id)
		SELECT ?, ?, ?, g.id FROM auth_groups g WHERE g.name = ?`

	result, err := tx.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		if mysql.IsDuplicateEntry(err) {
			return 0, errors.NewConflictError(fmt.Sprintf("username %q already exists", user.Username))
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, errors.NewNotFoundError(fmt.Sprintf("group %q not found", user.Role))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting user id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, g.name, u.date_joined
		FROM users u
		JOIN auth_groups g ON g.id = u.group_id
		WHERE u.username = ?`

	var user domain.User
	var role string
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &user.DateJoined,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user %q not found", username))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by username: %w", err)
	}

	user.Role = domain.Role(role)
	return &user, nil
}
