package mysql

import (
	"database/sql"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"

	"ordercrm/internal/config"
)

// DSN builds the driver connection string. ClientFoundRows makes UPDATE
// report matched rows, so an update that changes nothing still counts as found.
func DSN(cfg config.DatabaseConfig) string {
	dc := mysqldriver.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dc.DBName = cfg.Name
	dc.ParseTime = true
	dc.ClientFoundRows = true
	return dc.FormatDSN()
}

func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
