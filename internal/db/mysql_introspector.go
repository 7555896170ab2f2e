package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tordrt/dbblueprint/internal/schema"
)

// MySQLSystemDatabases are skipped when listing databases
var MySQLSystemDatabases = []string{"information_schema", "mysql", "performance_schema", "sys"}

// MySQLIntrospector reads table metadata from MySQL. MySQL schemas are
// databases, so the connected database is the default schema.
type MySQLIntrospector struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLIntrospector creates a new MySQL introspector.
// An empty schemaName means the connected database.
func NewMySQLIntrospector(client *MySQLClient, schemaName string) *MySQLIntrospector {
	if schemaName == "" {
		schemaName = client.Database()
	}
	return &MySQLIntrospector{
		client:     client,
		schemaName: schemaName,
	}
}

// Database returns the connected database name
func (e *MySQLIntrospector) Database() string {
	return e.client.Database()
}

// DefaultSchema returns the schema unqualified table names belong to
func (e *MySQLIntrospector) DefaultSchema() string {
	return e.schemaName
}

// Types returns the MySQL type map
func (e *MySQLIntrospector) Types() *schema.TypeMap {
	return schema.MySQLTypes
}

func (e *MySQLIntrospector) tableSchema(table schema.Identifier) string {
	if table.Schema == "" {
		return e.schemaName
	}
	return table.Schema
}

// ListDatabases returns every schema on the server
func (e *MySQLIntrospector) ListDatabases(ctx context.Context) ([]string, error) {
	var names []string
	err := e.client.GetDB().SelectContext(ctx, &names, "SELECT schema_name FROM information_schema.schemata ORDER BY schema_name")
	return names, err
}

// ListTables returns the base tables of the default schema
func (e *MySQLIntrospector) ListTables(ctx context.Context) ([]schema.Identifier, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	var names []string
	if err := e.client.GetDB().SelectContext(ctx, &names, query, e.schemaName); err != nil {
		return nil, err
	}

	tables := make([]schema.Identifier, len(names))
	for i, name := range names {
		tables[i] = schema.Identifier{Schema: e.schemaName, Table: name}
	}
	return tables, nil
}

// ListColumns extracts column information for a table
func (e *MySQLIntrospector) ListColumns(ctx context.Context, table schema.Identifier) ([]schema.RawColumn, error) {
	query := `
		SELECT
			c.column_name AS column_name,
			c.data_type AS data_type,
			c.column_type AS column_type,
			c.is_nullable AS is_nullable,
			c.column_default AS column_default,
			c.extra AS extra,
			c.column_comment AS column_comment
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	var rows []struct {
		Name       string         `db:"column_name"`
		DataType   string         `db:"data_type"`
		ColumnType string         `db:"column_type"`
		Nullable   string         `db:"is_nullable"`
		Default    sql.NullString `db:"column_default"`
		Extra      string         `db:"extra"`
		Comment    string         `db:"column_comment"`
	}
	if err := e.client.GetDB().SelectContext(ctx, &rows, query, e.tableSchema(table), table.Table); err != nil {
		return nil, err
	}

	columns := make([]schema.RawColumn, len(rows))
	for i, row := range rows {
		col := schema.RawColumn{
			Name:          row.Name,
			TypeName:      strings.ToLower(row.DataType),
			Unsigned:      strings.Contains(strings.ToLower(row.ColumnType), "unsigned"),
			Autoincrement: strings.Contains(strings.ToLower(row.Extra), "auto_increment"),
			Nullable:      row.Nullable == "YES",
			Default:       nullableString(row.Default.Valid, row.Default.String),
		}
		if row.Comment != "" {
			col.Comment = nullableString(true, row.Comment)
		}
		columns[i] = col
	}
	return columns, nil
}

// ListIndexes extracts the primary key and secondary indexes of a table
func (e *MySQLIntrospector) ListIndexes(ctx context.Context, table schema.Identifier) ([]schema.RawIndex, error) {
	query := `
		SELECT
			s.index_name AS index_name,
			s.index_name = 'PRIMARY' AS is_primary,
			s.non_unique = 0 AS is_unique,
			s.column_name AS column_name
		FROM information_schema.statistics s
		WHERE s.table_schema = ?
			AND s.table_name = ?
		ORDER BY s.index_name = 'PRIMARY' DESC, s.index_name, s.seq_in_index
	`

	var rows []indexRow
	if err := e.client.GetDB().SelectContext(ctx, &rows, query, e.tableSchema(table), table.Table); err != nil {
		return nil, err
	}
	return groupIndexRows(rows), nil
}

// ListForeignKeys extracts the foreign keys declared on a table
func (e *MySQLIntrospector) ListForeignKeys(ctx context.Context, table schema.Identifier) ([]schema.RawForeignKey, error) {
	query := `
		SELECT
			kcu.constraint_name AS constraint_name,
			kcu.column_name AS column_name,
			kcu.referenced_table_name AS foreign_table,
			kcu.referenced_column_name AS foreign_column
		FROM information_schema.key_column_usage kcu
		WHERE kcu.table_schema = ?
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position
	`

	var rows []foreignKeyRow
	if err := e.client.GetDB().SelectContext(ctx, &rows, query, e.tableSchema(table), table.Table); err != nil {
		return nil, err
	}
	return groupForeignKeyRows(rows), nil
}

// SchemaOf returns the schema owning the named table, preferring the default schema
func (e *MySQLIntrospector) SchemaOf(ctx context.Context, table string) (string, error) {
	query := `
		SELECT table_schema
		FROM information_schema.tables
		WHERE table_name = ?
		ORDER BY table_schema = ? DESC, table_schema
		LIMIT 1
	`

	var owner string
	err := e.client.GetDB().GetContext(ctx, &owner, query, table, e.schemaName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", schema.ErrOwnerNotFound
	}
	return owner, err
}

// UserTypes returns nothing; MySQL has no user-defined column types
func (e *MySQLIntrospector) UserTypes(context.Context) ([]schema.UserType, error) {
	return nil, nil
}
