package db

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db       *sqlx.DB
	database string
}

// NewMySQLClient creates a new MySQL client. The DSN must name a database.
func NewMySQLClient(ctx context.Context, connString string) (*MySQLClient, error) {
	database, err := ParseDatabaseName(connString)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db, database: database}, nil
}

// ParseDatabaseName returns the database named in a MySQL DSN
func ParseDatabaseName(connString string) (string, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return "", fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("connection string %q names no database", cfg.FormatDSN())
	}
	return cfg.DBName, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *MySQLClient) GetDB() *sqlx.DB {
	return c.db
}

// Database returns the name of the connected database
func (c *MySQLClient) Database() string {
	return c.database
}
