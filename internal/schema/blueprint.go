package schema

import (
	"fmt"
	"slices"
)

// Blueprint is the canonical description of one table. It is filled while its
// Schema loads and read-only afterwards.
type Blueprint struct {
	connection string
	database   string
	table      Identifier

	columns    []Column
	columnIdx  map[string]int
	primaryKey Index
	indexes    []Index
	relations  []Relation

	sealed bool
}

// NewBlueprint creates an empty blueprint for table
func NewBlueprint(connection, database string, table Identifier) *Blueprint {
	return &Blueprint{
		connection: connection,
		database:   database,
		table:      table,
		columnIdx:  make(map[string]int),
		primaryKey: Index{Kind: IndexPrimary, Columns: []string{}},
	}
}

// WithColumn appends a column
func (b *Blueprint) WithColumn(col Column) error {
	if b.sealed {
		return ErrSealed
	}
	if _, ok := b.columnIdx[col.Name]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, b.table, col.Name)
	}
	b.columnIdx[col.Name] = len(b.columns)
	b.columns = append(b.columns, col)
	return nil
}

// WithPrimaryKey sets the primary key
func (b *Blueprint) WithPrimaryKey(pk Index) error {
	if b.sealed {
		return ErrSealed
	}
	pk.Kind = IndexPrimary
	pk.Name = ""
	b.primaryKey = pk.clone()
	return nil
}

// WithIndex appends a secondary index
func (b *Blueprint) WithIndex(idx Index) error {
	if b.sealed {
		return ErrSealed
	}
	if idx.Kind == IndexPrimary {
		return fmt.Errorf("primary key %s passed as secondary index of %s", idx.Name, b.table)
	}
	b.indexes = append(b.indexes, idx.clone())
	return nil
}

// WithRelation appends a relation
func (b *Blueprint) WithRelation(rel Relation) error {
	if b.sealed {
		return ErrSealed
	}
	b.relations = append(b.relations, rel.clone())
	return nil
}

func (b *Blueprint) seal() {
	b.sealed = true
}

// Connection returns the connection name the table was loaded from
func (b *Blueprint) Connection() string {
	return b.connection
}

// Database returns the database name
func (b *Blueprint) Database() string {
	return b.database
}

// Table returns the table identifier
func (b *Blueprint) Table() Identifier {
	return b.table
}

// QualifiedTable returns "database.table" or "database.schema.table"
func (b *Blueprint) QualifiedTable() string {
	return b.database + "." + b.table.String()
}

// Is reports whether the blueprint describes table in database
func (b *Blueprint) Is(database string, table Identifier) bool {
	return b.database == database && b.table == table
}

// Columns returns the columns in the order they were reported
func (b *Blueprint) Columns() []Column {
	out := make([]Column, len(b.columns))
	copy(out, b.columns)
	return out
}

// Column returns the named column
func (b *Blueprint) Column(name string) (Column, bool) {
	i, ok := b.columnIdx[name]
	if !ok {
		return Column{}, false
	}
	return b.columns[i], true
}

// HasColumn reports whether the table has the named column
func (b *Blueprint) HasColumn(name string) bool {
	_, ok := b.columnIdx[name]
	return ok
}

// PrimaryKey returns the primary key; its Columns are empty when the table has none
func (b *Blueprint) PrimaryKey() Index {
	return b.primaryKey.clone()
}

// HasCompositePrimaryKey reports whether the primary key spans several columns
func (b *Blueprint) HasCompositePrimaryKey() bool {
	return len(b.primaryKey.Columns) > 1
}

// Indexes returns the secondary indexes
func (b *Blueprint) Indexes() []Index {
	out := make([]Index, len(b.indexes))
	for i, idx := range b.indexes {
		out[i] = idx.clone()
	}
	return out
}

// Relations returns the foreign keys declared on the table
func (b *Blueprint) Relations() []Relation {
	out := make([]Relation, len(b.relations))
	for i, rel := range b.relations {
		out[i] = rel.clone()
	}
	return out
}

// IsUnique reports whether exactly the given columns, in this order, form the
// primary key or a unique index.
func (b *Blueprint) IsUnique(columns ...string) bool {
	if len(columns) == 0 {
		return false
	}
	if slices.Equal(b.primaryKey.Columns, columns) {
		return true
	}
	for _, idx := range b.indexes {
		if idx.Kind == IndexUnique && slices.Equal(idx.Columns, columns) {
			return true
		}
	}
	return false
}

// References returns the relations of b that target other, or nil when other
// is nil
func (b *Blueprint) References(other *Blueprint) []Relation {
	if other == nil {
		return nil
	}
	var refs []Relation
	for _, rel := range b.relations {
		if other.Is(rel.Target.Database, rel.Target.Table) {
			refs = append(refs, rel.clone())
		}
	}
	return refs
}
