package sqlconnect

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"gamyartha/internal/config"
)

var DB *sql.DB

// ConnectDb opens the shared connection pool used by the route handlers.
// The ledger core never reaches for this global; it gets the handle injected.
func ConnectDb(cfg *config.Config) (*sql.DB, error) {
	if DB != nil {
		return DB, nil
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	DB = db
	return DB, nil
}
