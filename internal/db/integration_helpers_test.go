//go:build integration
// +build integration

package db

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/dbblueprint/internal/schema"
)

// verifyTablesExist checks that all expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	for _, tableName := range expectedTables {
		assert.True(t, s.Has(tableName), "expected table %s not found", tableName)
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, s *schema.Schema, tableName string, expectedPK []string) {
	t.Helper()

	b, err := s.Table(tableName)
	require.NoError(t, err)
	assert.Equal(t, expectedPK, b.PrimaryKey().Columns)
}

// verifyColumnType checks the canonical type of a column
func verifyColumnType(t *testing.T, s *schema.Schema, tableName, columnName string, expected schema.Type) {
	t.Helper()

	b, err := s.Table(tableName)
	require.NoError(t, err)
	col, ok := b.Column(columnName)
	require.True(t, ok, "column %s not found in %s", columnName, tableName)
	assert.Equal(t, expected, col.Type, "%s.%s", tableName, columnName)
}

// verifyForeignKey checks that a relation from tableName to target exists
func verifyForeignKey(t *testing.T, s *schema.Schema, tableName string, columns []string, target string, references []string) {
	t.Helper()

	b, err := s.Table(tableName)
	require.NoError(t, err)

	for _, rel := range b.Relations() {
		if rel.Target.Table.String() == target && slices.Equal(rel.Columns, columns) {
			assert.Equal(t, references, rel.References)
			return
		}
	}
	t.Errorf("expected relation from %s%v to %s not found", tableName, columns, target)
}

// verifyReferencedBy checks that target is referenced by the source table
func verifyReferencedBy(t *testing.T, s *schema.Schema, target, source string) {
	t.Helper()

	b, err := s.Table(target)
	require.NoError(t, err)

	for _, ref := range s.Referencing(b) {
		if ref.Blueprint.Table().String() == source {
			return
		}
	}
	t.Errorf("expected %s to be referenced by %s", target, source)
}

// verifyIndex checks that an index exists with the expected columns
func verifyIndex(t *testing.T, s *schema.Schema, tableName, indexName string, kind schema.IndexKind, expectedColumns []string) {
	t.Helper()

	b, err := s.Table(tableName)
	require.NoError(t, err)

	for _, idx := range b.Indexes() {
		if idx.Name == indexName {
			assert.Equal(t, kind, idx.Kind)
			assert.Equal(t, expectedColumns, idx.Columns)
			return
		}
	}
	t.Errorf("expected index %s on %s not found", indexName, tableName)
}
