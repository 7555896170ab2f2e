package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tordrt/dbblueprint/internal/schema"
)

// PostgresSystemDatabases are skipped when listing databases
var PostgresSystemDatabases = []string{"postgres"}

const postgresDefaultSchema = "public"

// PostgresIntrospector reads table metadata from PostgreSQL
type PostgresIntrospector struct {
	client        *PostgresClient
	defaultSchema string
}

// NewPostgresIntrospector creates a new PostgreSQL introspector.
// An empty defaultSchema means public.
func NewPostgresIntrospector(client *PostgresClient, defaultSchema string) *PostgresIntrospector {
	if defaultSchema == "" {
		defaultSchema = postgresDefaultSchema
	}
	return &PostgresIntrospector{
		client:        client,
		defaultSchema: defaultSchema,
	}
}

// Database returns the connected database name
func (e *PostgresIntrospector) Database() string {
	return e.client.Database()
}

// DefaultSchema returns the schema unqualified table names belong to
func (e *PostgresIntrospector) DefaultSchema() string {
	return e.defaultSchema
}

// Types returns the PostgreSQL type map
func (e *PostgresIntrospector) Types() *schema.TypeMap {
	return schema.PostgresTypes
}

func (e *PostgresIntrospector) schemaName(table schema.Identifier) string {
	if table.Schema == "" {
		return e.defaultSchema
	}
	return table.Schema
}

// ListDatabases returns every non-template database
func (e *PostgresIntrospector) ListDatabases(ctx context.Context) ([]string, error) {
	rows, err := e.client.GetConnection().Query(ctx, "SELECT datname FROM pg_database WHERE NOT datistemplate ORDER BY datname")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ListTables returns the base tables of every user schema
func (e *PostgresIntrospector) ListTables(ctx context.Context) ([]schema.Identifier, error) {
	query := `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
			AND table_schema NOT IN ('pg_catalog', 'information_schema')
			AND table_schema NOT LIKE 'pg_toast%'
		ORDER BY table_schema, table_name
	`

	rows, err := e.client.GetConnection().Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []schema.Identifier
	for rows.Next() {
		var id schema.Identifier
		if err := rows.Scan(&id.Schema, &id.Table); err != nil {
			return nil, err
		}
		tables = append(tables, id)
	}

	return tables, rows.Err()
}

// postgresTypeName returns the name to look up in the type map. Enums and
// extension types are reported by their own name.
func postgresTypeName(dataType, udtName string) string {
	if dataType == "USER-DEFINED" {
		return udtName
	}
	return dataType
}

// ListColumns extracts column information for a table
func (e *PostgresIntrospector) ListColumns(ctx context.Context, table schema.Identifier) ([]schema.RawColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.is_identity,
			col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position) AS comment
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schemaName(table), table.Table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.RawColumn
	for rows.Next() {
		var col schema.RawColumn
		var dataType, udtName, nullable, identity string

		if err := rows.Scan(&col.Name, &dataType, &udtName, &nullable, &col.Default, &identity, &col.Comment); err != nil {
			return nil, err
		}

		col.TypeName = postgresTypeName(dataType, udtName)
		col.Nullable = nullable == "YES"
		col.Autoincrement = identity == "YES" ||
			(col.Default != nil && strings.HasPrefix(*col.Default, "nextval("))

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// ListIndexes extracts the primary key and secondary indexes of a table
func (e *PostgresIntrospector) ListIndexes(ctx context.Context, table schema.Identifier) ([]schema.RawIndex, error) {
	query := `
		SELECT
			i.relname::text AS index_name,
			ix.indisprimary AS is_primary,
			ix.indisunique AS is_unique,
			array_agg(a.attname::text ORDER BY array_position(ix.indkey, a.attnum)) AS column_names
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE t.relkind IN ('r', 'p')
			AND n.nspname = $1
			AND t.relname = $2
		GROUP BY i.relname, ix.indisprimary, ix.indisunique
		ORDER BY ix.indisprimary DESC, i.relname
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schemaName(table), table.Table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []schema.RawIndex
	for rows.Next() {
		var idx schema.RawIndex
		if err := rows.Scan(&idx.Name, &idx.Primary, &idx.Unique, &idx.Columns); err != nil {
			return nil, err
		}
		indexes = append(indexes, idx)
	}

	return indexes, rows.Err()
}

// ListForeignKeys extracts the foreign keys declared on a table, column pairs
// in constraint order
func (e *PostgresIntrospector) ListForeignKeys(ctx context.Context, table schema.Identifier) ([]schema.RawForeignKey, error) {
	query := `
		SELECT
			con.conname::text,
			att.attname::text,
			ft.relname::text,
			fatt.attname::text
		FROM pg_constraint con
		JOIN pg_class t ON t.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_class ft ON ft.oid = con.confrelid
		CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS k(attnum, fattnum, ord)
		JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = k.attnum
		JOIN pg_attribute fatt ON fatt.attrelid = con.confrelid AND fatt.attnum = k.fattnum
		WHERE con.contype = 'f'
			AND n.nspname = $1
			AND t.relname = $2
		ORDER BY con.conname, k.ord
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schemaName(table), table.Table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fkRows []foreignKeyRow
	for rows.Next() {
		var row foreignKeyRow
		if err := rows.Scan(&row.Name, &row.Column, &row.ForeignTable, &row.ForeignColumn); err != nil {
			return nil, err
		}
		fkRows = append(fkRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groupForeignKeyRows(fkRows), nil
}

// SchemaOf returns the schema owning the named table, preferring the default schema
func (e *PostgresIntrospector) SchemaOf(ctx context.Context, table string) (string, error) {
	query := `
		SELECT table_schema
		FROM information_schema.tables
		WHERE table_name = $1
		ORDER BY (table_schema = $2) DESC, table_schema
		LIMIT 1
	`

	var owner string
	err := e.client.GetConnection().QueryRow(ctx, query, table, e.defaultSchema).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", schema.ErrOwnerNotFound
	}
	return owner, err
}

// UserTypes returns enums, domains and extension base types. Domains carry
// their base type; the others have none.
func (e *PostgresIntrospector) UserTypes(ctx context.Context) ([]schema.UserType, error) {
	query := `
		SELECT
			t.typname::text,
			CASE WHEN t.typtype = 'd' THEN format_type(t.typbasetype, NULL) ELSE '' END
		FROM pg_type t
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE t.typtype IN ('b', 'd', 'e')
			AND t.typcategory <> 'A'
			AND n.nspname NOT IN ('pg_catalog', 'information_schema')
	`

	rows, err := e.client.GetConnection().Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []schema.UserType
	for rows.Next() {
		var ut schema.UserType
		if err := rows.Scan(&ut.Name, &ut.BaseName); err != nil {
			return nil, err
		}
		types = append(types, ut)
	}

	return types, rows.Err()
}
