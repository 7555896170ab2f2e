package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/dbblueprint/internal/schema"
)

const sqliteMainSchema = "main"

// SQLiteIntrospector reads table metadata from SQLite pragmas
type SQLiteIntrospector struct {
	client *SQLiteClient
}

// NewSQLiteIntrospector creates a new SQLite introspector
func NewSQLiteIntrospector(client *SQLiteClient) *SQLiteIntrospector {
	return &SQLiteIntrospector{
		client: client,
	}
}

// Database returns the name derived from the database file
func (e *SQLiteIntrospector) Database() string {
	return e.client.Database()
}

// DefaultSchema returns main
func (e *SQLiteIntrospector) DefaultSchema() string {
	return sqliteMainSchema
}

// Types returns the SQLite type map
func (e *SQLiteIntrospector) Types() *schema.TypeMap {
	return schema.SQLiteTypes
}

type sqliteColumn struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

type sqliteIndex struct {
	Seq     int    `db:"seq"`
	Name    string `db:"name"`
	Unique  int    `db:"unique"`
	Origin  string `db:"origin"`
	Partial int    `db:"partial"`
}

type sqliteIndexColumn struct {
	SeqNo int            `db:"seqno"`
	CID   int            `db:"cid"`
	Name  sql.NullString `db:"name"`
}

type sqliteForeignKey struct {
	ID       int            `db:"id"`
	Seq      int            `db:"seq"`
	Table    string         `db:"table"`
	From     string         `db:"from"`
	To       sql.NullString `db:"to"`
	OnUpdate string         `db:"on_update"`
	OnDelete string         `db:"on_delete"`
	Match    string         `db:"match"`
}

// quoteIdent quotes a name for use inside a pragma call
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqliteTypeName reduces a declared column type to the base name used by the
// type map: lower case, no length, no unsigned marker. Columns declared without
// a type have blob affinity.
func sqliteTypeName(declared string) (name string, unsigned bool) {
	name = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	name = strings.Join(strings.Fields(name), " ")

	if name != "unsigned big int" {
		fields := strings.Fields(name)
		kept := fields[:0]
		for _, f := range fields {
			if f == "unsigned" {
				unsigned = true
				continue
			}
			kept = append(kept, f)
		}
		name = strings.Join(kept, " ")
	} else {
		unsigned = true
	}

	if name == "" {
		name = "blob"
	}
	return name, unsigned
}

// ListDatabases returns the attached databases
func (e *SQLiteIntrospector) ListDatabases(ctx context.Context) ([]string, error) {
	var rows []struct {
		Seq  int    `db:"seq"`
		Name string `db:"name"`
		File string `db:"file"`
	}
	if err := e.client.GetDB().SelectContext(ctx, &rows, "PRAGMA database_list"); err != nil {
		return nil, err
	}

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
	}
	return names, nil
}

// ListTables returns all tables except SQLite internals
func (e *SQLiteIntrospector) ListTables(ctx context.Context) ([]schema.Identifier, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	var names []string
	if err := e.client.GetDB().SelectContext(ctx, &names, query); err != nil {
		return nil, err
	}

	tables := make([]schema.Identifier, len(names))
	for i, name := range names {
		tables[i] = schema.Identifier{Schema: sqliteMainSchema, Table: name}
	}
	return tables, nil
}

func (e *SQLiteIntrospector) tableInfo(ctx context.Context, table string) ([]sqliteColumn, error) {
	var cols []sqliteColumn
	err := e.client.GetDB().SelectContext(ctx, &cols, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	return cols, err
}

// primaryKey returns the primary key columns in key order
func primaryKey(cols []sqliteColumn) []string {
	var pk []sqliteColumn
	for _, c := range cols {
		if c.PK > 0 {
			pk = append(pk, c)
		}
	}
	sort.Slice(pk, func(i, j int) bool { return pk[i].PK < pk[j].PK })

	names := make([]string, len(pk))
	for i, c := range pk {
		names[i] = c.Name
	}
	return names
}

// ListColumns extracts column information for a table. A lone INTEGER primary
// key aliases the rowid and counts as autoincrement.
func (e *SQLiteIntrospector) ListColumns(ctx context.Context, table schema.Identifier) ([]schema.RawColumn, error) {
	cols, err := e.tableInfo(ctx, table.Table)
	if err != nil {
		return nil, err
	}
	pk := primaryKey(cols)

	columns := make([]schema.RawColumn, len(cols))
	for i, c := range cols {
		typeName, unsigned := sqliteTypeName(c.Type)
		columns[i] = schema.RawColumn{
			Name:          c.Name,
			TypeName:      typeName,
			Unsigned:      unsigned,
			Autoincrement: len(pk) == 1 && pk[0] == c.Name && typeName == "integer",
			Nullable:      c.NotNull == 0 && c.PK == 0,
			Default:       nullableString(c.Default.Valid, c.Default.String),
		}
	}
	return columns, nil
}

// ListIndexes extracts the primary key and secondary indexes of a table
func (e *SQLiteIntrospector) ListIndexes(ctx context.Context, table schema.Identifier) ([]schema.RawIndex, error) {
	cols, err := e.tableInfo(ctx, table.Table)
	if err != nil {
		return nil, err
	}

	var indexes []schema.RawIndex
	if pk := primaryKey(cols); len(pk) > 0 {
		indexes = append(indexes, schema.RawIndex{Name: "primary", Primary: true, Unique: true, Columns: pk})
	}

	var list []sqliteIndex
	if err := e.client.GetDB().SelectContext(ctx, &list, fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(table.Table))); err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	for _, idx := range list {
		// The primary key was taken from table_info
		if idx.Origin == "pk" {
			continue
		}

		var info []sqliteIndexColumn
		if err := e.client.GetDB().SelectContext(ctx, &info, fmt.Sprintf("PRAGMA index_info(%s)", quoteIdent(idx.Name))); err != nil {
			return nil, err
		}
		sort.Slice(info, func(i, j int) bool { return info[i].SeqNo < info[j].SeqNo })

		var columns []string
		for _, c := range info {
			// expression index parts have no column name
			if c.Name.Valid {
				columns = append(columns, c.Name.String)
			}
		}
		if len(columns) == 0 {
			continue
		}

		indexes = append(indexes, schema.RawIndex{
			Name:    idx.Name,
			Unique:  idx.Unique == 1,
			Columns: columns,
		})
	}

	return indexes, nil
}

// ListForeignKeys extracts foreign keys. A key that omits its referenced
// columns points at the referenced table's primary key.
func (e *SQLiteIntrospector) ListForeignKeys(ctx context.Context, table schema.Identifier) ([]schema.RawForeignKey, error) {
	var list []sqliteForeignKey
	if err := e.client.GetDB().SelectContext(ctx, &list, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table.Table))); err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].ID != list[j].ID {
			return list[i].ID < list[j].ID
		}
		return list[i].Seq < list[j].Seq
	})

	rows := make([]foreignKeyRow, 0, len(list))
	implicit := make(map[string]bool)
	for _, fk := range list {
		name := fmt.Sprintf("%s_fk_%d", table.Table, fk.ID)
		if !fk.To.Valid {
			implicit[name] = true
		}
		rows = append(rows, foreignKeyRow{
			Name:          name,
			Column:        fk.From,
			ForeignTable:  fk.Table,
			ForeignColumn: fk.To.String,
		})
	}

	keys := groupForeignKeyRows(rows)
	for i := range keys {
		if !implicit[keys[i].Name] {
			continue
		}
		targetCols, err := e.tableInfo(ctx, keys[i].ForeignTable)
		if err != nil {
			return nil, err
		}
		keys[i].ForeignColumns = primaryKey(targetCols)
	}

	return keys, nil
}

// SchemaOf returns main when the table exists
func (e *SQLiteIntrospector) SchemaOf(ctx context.Context, table string) (string, error) {
	var owner string
	err := e.client.GetDB().GetContext(ctx, &owner, "SELECT 'main' FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if errors.Is(err, sql.ErrNoRows) {
		return "", schema.ErrOwnerNotFound
	}
	return owner, err
}

// UserTypes returns nothing; SQLite has no type catalog
func (e *SQLiteIntrospector) UserTypes(context.Context) ([]schema.UserType, error) {
	return nil, nil
}
