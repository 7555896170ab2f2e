package db

import (
	"database/sql"

	"github.com/tordrt/dbblueprint/internal/schema"
)

// indexRow is one key part of one index, as returned by the catalog queries.
// Column is NULL for expression key parts (MySQL 8 functional indexes).
type indexRow struct {
	Name    string         `db:"index_name"`
	Primary bool           `db:"is_primary"`
	Unique  bool           `db:"is_unique"`
	Column  sql.NullString `db:"column_name"`
}

// foreignKeyRow is one column pair of one foreign key
type foreignKeyRow struct {
	Name          string `db:"constraint_name"`
	Column        string `db:"column_name"`
	ForeignTable  string `db:"foreign_table"`
	ForeignColumn string `db:"foreign_column"`
}

// groupIndexRows folds per-column rows into indexes. Indexes keep the order of
// their first row, columns keep row order. Expression parts are skipped, so an
// index built only from expressions is dropped.
func groupIndexRows(rows []indexRow) []schema.RawIndex {
	var indexes []schema.RawIndex
	pos := make(map[string]int)

	for _, row := range rows {
		if !row.Column.Valid {
			continue
		}
		i, ok := pos[row.Name]
		if !ok {
			i = len(indexes)
			pos[row.Name] = i
			indexes = append(indexes, schema.RawIndex{
				Name:    row.Name,
				Primary: row.Primary,
				Unique:  row.Unique || row.Primary,
			})
		}
		indexes[i].Columns = append(indexes[i].Columns, row.Column.String)
	}

	return indexes
}

// groupForeignKeyRows folds per-column rows into foreign keys, keeping the
// local and referenced columns positionally paired.
func groupForeignKeyRows(rows []foreignKeyRow) []schema.RawForeignKey {
	var keys []schema.RawForeignKey
	pos := make(map[string]int)

	for _, row := range rows {
		i, ok := pos[row.Name]
		if !ok {
			i = len(keys)
			pos[row.Name] = i
			keys = append(keys, schema.RawForeignKey{
				Name:         row.Name,
				ForeignTable: row.ForeignTable,
			})
		}
		keys[i].Columns = append(keys[i].Columns, row.Column)
		keys[i].ForeignColumns = append(keys[i].ForeignColumns, row.ForeignColumn)
	}

	return keys
}

func nullableString(valid bool, s string) *string {
	if !valid {
		return nil
	}
	return &s
}
