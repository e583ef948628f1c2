package mysql

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
)

const (
	errDuplicateEntry   = 1062
	errForeignKeyParent = 1452
)

// IsDuplicateEntry reports whether err is a unique-key violation.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}

// IsMissingReference reports whether err is a foreign-key violation on insert
// or update, i.e. the referenced row does not exist.
func IsMissingReference(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errForeignKeyParent
}
