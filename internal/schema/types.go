package schema

import "strings"

// Type is the canonical, database-agnostic column type
type Type string

// Canonical types every vendor type maps into
const (
	TypeString   Type = "string"
	TypeDatetime Type = "datetime"
	TypeInteger  Type = "integer"
	TypeFloat    Type = "float"
	TypeBoolean  Type = "boolean"
)

// Types lists the canonical types in a stable order
var Types = []Type{TypeString, TypeDatetime, TypeInteger, TypeFloat, TypeBoolean}

// Valid reports whether t is one of the canonical types
func (t Type) Valid() bool {
	for _, c := range Types {
		if t == c {
			return true
		}
	}
	return false
}

// Identifier names a table, optionally qualified by its owning schema.
// An empty Schema means the table lives in the database's default schema.
type Identifier struct {
	Schema string
	Table  string
}

// String returns "table" or "schema.table"
func (id Identifier) String() string {
	if id.Schema == "" {
		return id.Table
	}
	return id.Schema + "." + id.Table
}

// Qualified reports whether the identifier carries a schema qualifier
func (id Identifier) Qualified() bool {
	return id.Schema != ""
}

// ParseIdentifier splits "schema.table" on the first dot. A name without a dot
// is unqualified. Table names that themselves contain a dot cannot be expressed
// in this flat form; build an Identifier directly for those.
func ParseIdentifier(name string) Identifier {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return Identifier{Schema: name[:i], Table: name[i+1:]}
	}
	return Identifier{Table: name}
}

// qualify drops the schema qualifier when it equals the default schema
func qualify(owner, table, defaultSchema string) Identifier {
	if owner == defaultSchema {
		owner = ""
	}
	return Identifier{Schema: owner, Table: table}
}

// Column is the canonical record of a table column
type Column struct {
	Name          string
	Type          Type
	Unsigned      bool
	Nullable      bool
	Autoincrement bool
	Default       *string
	Comment       *string
}

// IndexKind distinguishes primary keys from secondary indexes
type IndexKind string

// Index kinds
const (
	IndexPrimary IndexKind = "primary"
	IndexUnique  IndexKind = "unique"
	IndexPlain   IndexKind = "index"
)

// Index is a primary key or secondary index. Column order is significant.
type Index struct {
	Kind    IndexKind
	Name    string
	Columns []string
}

// Target identifies the table a relation points at
type Target struct {
	Database string
	Table    Identifier
}

// Relation represents a foreign key relationship. Columns[i] references
// References[i] on the target table.
type Relation struct {
	Name       string
	Columns    []string
	References []string
	Target     Target
}

// RawColumn is a column as reported by an introspector
type RawColumn struct {
	Name          string
	TypeName      string
	Unsigned      bool
	Autoincrement bool
	Nullable      bool
	Default       *string
	Comment       *string
}

// RawIndex is an index as reported by an introspector
type RawIndex struct {
	Name    string
	Primary bool
	Unique  bool
	Columns []string
}

// RawForeignKey is a foreign key as reported by an introspector.
// ForeignTable is the bare referenced table name; its owning schema is
// resolved separately.
type RawForeignKey struct {
	Name           string
	Columns        []string
	ForeignTable   string
	ForeignColumns []string
}

// UserType is a user-defined or assembly type and the name of the system type
// it is based on. BaseName is empty when the catalog has no base type.
type UserType struct {
	Name     string
	BaseName string
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func (i Index) clone() Index {
	i.Columns = cloneStrings(i.Columns)
	return i
}

func (r Relation) clone() Relation {
	r.Columns = cloneStrings(r.Columns)
	r.References = cloneStrings(r.References)
	return r
}
