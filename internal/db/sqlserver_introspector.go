package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tordrt/dbblueprint/internal/schema"
)

// SQLServerSystemDatabases are skipped when listing databases
var SQLServerSystemDatabases = []string{"master", "tempdb", "model", "msdb", "sysdb"}

const sqlServerDefaultSchema = "dbo"

// SQLServerIntrospector reads table metadata from the SQL Server catalog views
type SQLServerIntrospector struct {
	client        *SQLServerClient
	defaultSchema string
}

// NewSQLServerIntrospector creates a new SQL Server introspector.
// An empty defaultSchema means dbo.
func NewSQLServerIntrospector(client *SQLServerClient, defaultSchema string) *SQLServerIntrospector {
	if defaultSchema == "" {
		defaultSchema = sqlServerDefaultSchema
	}
	return &SQLServerIntrospector{
		client:        client,
		defaultSchema: defaultSchema,
	}
}

// Database returns the connected database name
func (e *SQLServerIntrospector) Database() string {
	return e.client.Database()
}

// DefaultSchema returns the schema unqualified table names belong to
func (e *SQLServerIntrospector) DefaultSchema() string {
	return e.defaultSchema
}

// Types returns the SQL Server type map
func (e *SQLServerIntrospector) Types() *schema.TypeMap {
	return schema.SQLServerTypes
}

func (e *SQLServerIntrospector) schemaName(table schema.Identifier) string {
	if table.Schema == "" {
		return e.defaultSchema
	}
	return table.Schema
}

// ListDatabases returns every database on the server
func (e *SQLServerIntrospector) ListDatabases(ctx context.Context) ([]string, error) {
	var names []string
	err := e.client.GetDB().SelectContext(ctx, &names, "SELECT name FROM sys.databases ORDER BY name")
	return names, err
}

// ListTables returns all user tables of the database
func (e *SQLServerIntrospector) ListTables(ctx context.Context) ([]schema.Identifier, error) {
	query := `
		SELECT s.name AS schema_name, t.name AS table_name
		FROM sys.tables t
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		WHERE t.is_ms_shipped = 0
		ORDER BY s.name, t.name
	`

	var rows []struct {
		Schema string `db:"schema_name"`
		Table  string `db:"table_name"`
	}
	if err := e.client.GetDB().SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	tables := make([]schema.Identifier, len(rows))
	for i, row := range rows {
		tables[i] = schema.Identifier{Schema: row.Schema, Table: row.Table}
	}
	return tables, nil
}

// ListColumns extracts column information for a table. User-defined types are
// reported by their own name.
func (e *SQLServerIntrospector) ListColumns(ctx context.Context, table schema.Identifier) ([]schema.RawColumn, error) {
	query := `
		SELECT
			c.name AS column_name,
			ty.name AS type_name,
			c.is_nullable,
			c.is_identity,
			dc.definition AS default_value,
			CAST(ep.value AS nvarchar(4000)) AS comment
		FROM sys.columns c
		JOIN sys.tables t ON t.object_id = c.object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.types ty ON ty.user_type_id = c.user_type_id
		LEFT JOIN sys.default_constraints dc ON dc.object_id = c.default_object_id
		LEFT JOIN sys.extended_properties ep
			ON ep.class = 1
			AND ep.major_id = c.object_id
			AND ep.minor_id = c.column_id
			AND ep.name = 'MS_Description'
		WHERE s.name = @p1 AND t.name = @p2
		ORDER BY c.column_id
	`

	var rows []struct {
		Name     string         `db:"column_name"`
		TypeName string         `db:"type_name"`
		Nullable bool           `db:"is_nullable"`
		Identity bool           `db:"is_identity"`
		Default  sql.NullString `db:"default_value"`
		Comment  sql.NullString `db:"comment"`
	}
	if err := e.client.GetDB().SelectContext(ctx, &rows, query, e.schemaName(table), table.Table); err != nil {
		return nil, err
	}

	columns := make([]schema.RawColumn, len(rows))
	for i, row := range rows {
		columns[i] = schema.RawColumn{
			Name:          row.Name,
			TypeName:      row.TypeName,
			Autoincrement: row.Identity,
			Nullable:      row.Nullable,
			Default:       nullableString(row.Default.Valid, row.Default.String),
			Comment:       nullableString(row.Comment.Valid, row.Comment.String),
		}
	}
	return columns, nil
}

// ListIndexes extracts the primary key and secondary indexes of a table,
// columns in key order
func (e *SQLServerIntrospector) ListIndexes(ctx context.Context, table schema.Identifier) ([]schema.RawIndex, error) {
	query := `
		SELECT
			i.name AS index_name,
			i.is_primary_key AS is_primary,
			i.is_unique,
			col.name AS column_name
		FROM sys.indexes i
		JOIN sys.tables t ON t.object_id = i.object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		JOIN sys.columns col ON col.object_id = ic.object_id AND col.column_id = ic.column_id
		WHERE s.name = @p1
			AND t.name = @p2
			AND i.type > 0
			AND i.is_hypothetical = 0
			AND ic.is_included_column = 0
		ORDER BY i.index_id, ic.key_ordinal
	`

	var rows []indexRow
	if err := e.client.GetDB().SelectContext(ctx, &rows, query, e.schemaName(table), table.Table); err != nil {
		return nil, err
	}
	return groupIndexRows(rows), nil
}

// ListForeignKeys extracts the foreign keys declared on a table
func (e *SQLServerIntrospector) ListForeignKeys(ctx context.Context, table schema.Identifier) ([]schema.RawForeignKey, error) {
	query := `
		SELECT
			fk.name AS constraint_name,
			pc.name AS column_name,
			rt.name AS foreign_table,
			rc.name AS foreign_column
		FROM sys.foreign_keys fk
		JOIN sys.tables t ON t.object_id = fk.parent_object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
		JOIN sys.columns pc ON pc.object_id = fkc.parent_object_id AND pc.column_id = fkc.parent_column_id
		JOIN sys.tables rt ON rt.object_id = fkc.referenced_object_id
		JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
		WHERE s.name = @p1 AND t.name = @p2
		ORDER BY fk.name, fkc.constraint_column_id
	`

	var rows []foreignKeyRow
	if err := e.client.GetDB().SelectContext(ctx, &rows, query, e.schemaName(table), table.Table); err != nil {
		return nil, err
	}
	return groupForeignKeyRows(rows), nil
}

// SchemaOf returns the schema owning the named table, preferring the default
// schema when several schemas hold a table of that name
func (e *SQLServerIntrospector) SchemaOf(ctx context.Context, table string) (string, error) {
	query := `
		SELECT TOP 1 TABLE_SCHEMA
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_NAME = @p1
		ORDER BY CASE WHEN TABLE_SCHEMA = @p2 THEN 0 ELSE 1 END, TABLE_SCHEMA
	`

	var owner string
	err := e.client.GetDB().GetContext(ctx, &owner, query, table, e.defaultSchema)
	if errors.Is(err, sql.ErrNoRows) {
		return "", schema.ErrOwnerNotFound
	}
	return owner, err
}

// UserTypes returns user-defined and CLR types with their base system type
func (e *SQLServerIntrospector) UserTypes(ctx context.Context) ([]schema.UserType, error) {
	query := `
		SELECT st1.name, COALESCE(st2.name, '') AS base_name
		FROM sys.types AS st1
		LEFT JOIN sys.types st2 ON st2.user_type_id = st1.system_type_id AND st2.is_user_defined = 0
		WHERE st1.is_user_defined = 1 OR st1.is_assembly_type = 1
	`

	var rows []struct {
		Name     string `db:"name"`
		BaseName string `db:"base_name"`
	}
	if err := e.client.GetDB().SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	types := make([]schema.UserType, len(rows))
	for i, row := range rows {
		types[i] = schema.UserType{Name: row.Name, BaseName: row.BaseName}
	}
	return types, nil
}
