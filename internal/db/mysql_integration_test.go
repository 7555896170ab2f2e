//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/dbblueprint/internal/schema"
)

var mysqlFixture = []string{
	"DROP TABLE IF EXISTS bp_orders",
	"DROP TABLE IF EXISTS bp_customers",
	`CREATE TABLE bp_customers (
		id INT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_bp_customers_email (email)
	)`,
	`CREATE TABLE bp_orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		customer_id INT UNSIGNED NOT NULL,
		total DECIMAL(10, 2) DEFAULT 0 COMMENT 'gross amount',
		placed_at DATETIME NOT NULL,
		paid TINYINT(1) NOT NULL DEFAULT 0,
		KEY idx_bp_orders_placed (placed_at),
		CONSTRAINT fk_bp_orders_customer FOREIGN KEY (customer_id) REFERENCES bp_customers(id)
	)`,
}

func mysqlTestClient(t *testing.T, ctx context.Context) *MySQLClient {
	t.Helper()

	// Use environment variable if set, otherwise use default test connection string
	connString := os.Getenv("MYSQL_TEST_URL")
	if connString == "" {
		connString = "testuser:testpassword@tcp(localhost:3306)/testdb"
	}

	client, err := NewMySQLClient(ctx, connString)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestMySQLIntrospection(t *testing.T) {
	ctx := context.Background()
	client := mysqlTestClient(t, ctx)

	for _, stmt := range mysqlFixture {
		_, err := client.GetDB().ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	s, err := schema.Load(ctx, NewMySQLIntrospector(client, ""), schema.Options{
		Connection: "mysql",
		Tables:     []string{"bp_customers", "bp_orders"},
	})
	require.NoError(t, err)

	verifyTablesExist(t, s, []string{"bp_customers", "bp_orders"})
	verifyPrimaryKey(t, s, "bp_orders", []string{"id"})
	verifyColumnType(t, s, "bp_orders", "total", schema.TypeFloat)
	verifyColumnType(t, s, "bp_orders", "placed_at", schema.TypeDatetime)
	verifyColumnType(t, s, "bp_customers", "id", schema.TypeInteger)
	verifyForeignKey(t, s, "bp_orders", []string{"customer_id"}, "bp_customers", []string{"id"})
	verifyReferencedBy(t, s, "bp_customers", "bp_orders")
	verifyIndex(t, s, "bp_orders", "idx_bp_orders_placed", schema.IndexPlain, []string{"placed_at"})
	verifyIndex(t, s, "bp_customers", "uq_bp_customers_email", schema.IndexUnique, []string{"email"})

	customers := mustTable(t, s, "bp_customers")
	id, _ := customers.Column("id")
	assert.True(t, id.Unsigned)
	assert.True(t, id.Autoincrement)

	orders := mustTable(t, s, "bp_orders")
	total, _ := orders.Column("total")
	require.NotNil(t, total.Comment)
	assert.Equal(t, "gross amount", *total.Comment)
}
