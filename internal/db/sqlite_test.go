package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLiteTypeName(t *testing.T) {
	tests := []struct {
		declared string
		name     string
		unsigned bool
	}{
		{"INTEGER", "integer", false},
		{"VARCHAR(255)", "varchar", false},
		{"  Decimal (10, 2) ", "decimal", false},
		{"INT UNSIGNED", "int", true},
		{"UNSIGNED BIG INT", "unsigned big int", true},
		{"DOUBLE   PRECISION", "double precision", false},
		{"", "blob", false},
		{"DATETIME", "datetime", false},
	}

	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			name, unsigned := sqliteTypeName(tt.declared)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.unsigned, unsigned)
		})
	}
}

func TestSQLiteDatabaseName(t *testing.T) {
	tests := map[string]string{
		"test.db":                    "test",
		"/var/data/app.sqlite3":      "app",
		"file:shop.db?cache=shared":  "shop",
		"file::memory:?cache=shared": ":memory:",
		"":                           "main",
	}
	for path, want := range tests {
		assert.Equal(t, want, sqliteDatabaseName(path), path)
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"users"`, quoteIdent("users"))
	assert.Equal(t, `"odd""name"`, quoteIdent(`odd"name`))
}

func TestPrimaryKeyOrder(t *testing.T) {
	cols := []sqliteColumn{
		{Name: "b", PK: 2},
		{Name: "x"},
		{Name: "a", PK: 1},
	}
	assert.Equal(t, []string{"a", "b"}, primaryKey(cols))
	assert.Empty(t, primaryKey([]sqliteColumn{{Name: "x"}}))
}
