package mysql

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercrm/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:            "db",
		Port:            3307,
		User:            "app",
		Password:        "pw",
		Name:            "shop",
		ConnMaxLifetime: time.Minute,
	})

	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "app", parsed.User)
	assert.Equal(t, "pw", parsed.Passwd)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "shop", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'bob' for key 'username'"}

	assert.True(t, IsDuplicateEntry(dup))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("inserting user: %w", dup)))
	assert.False(t, IsDuplicateEntry(&mysqldriver.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateEntry(errors.New("Duplicate entry")))
	assert.False(t, IsDuplicateEntry(nil))
}

func TestIsMissingReference(t *testing.T) {
	assert.True(t, IsMissingReference(&mysqldriver.MySQLError{Number: 1452}))
	assert.False(t, IsMissingReference(&mysqldriver.MySQLError{Number: 1062}))
}

func TestSplitStatements(t *testing.T) {
	content := "CREATE TABLE a (id INT);\n\n-- seed\nINSERT INTO a VALUES (1);\n"

	stmts := splitStatements(content)

	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INT)", stmts[0])
	assert.True(t, strings.HasSuffix(stmts[1], "INSERT INTO a VALUES (1)"))
}

func TestEmbeddedMigrations(t *testing.T) {
	content, err := migrationFS.ReadFile("migrations/001_auth_groups.sql")
	require.NoError(t, err)

	stmts := splitStatements(string(content))
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[1], "'admin'")
	assert.Contains(t, stmts[1], "'customer'")
}
