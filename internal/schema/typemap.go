package schema

import (
	"fmt"
	"sort"
)

// TypeMap maps vendor type names to canonical types. A TypeMap is immutable;
// WithAliases returns a new value.
type TypeMap struct {
	lookup map[string]Type
}

// NewTypeMap builds a TypeMap from vendor type names grouped by canonical type.
// A vendor name listed under two canonical types is rejected.
func NewTypeMap(groups map[Type][]string) (*TypeMap, error) {
	lookup := make(map[string]Type)
	for _, t := range Types {
		for _, name := range groups[t] {
			if prev, ok := lookup[name]; ok && prev != t {
				return nil, fmt.Errorf("vendor type %q mapped to both %s and %s", name, prev, t)
			}
			lookup[name] = t
		}
	}
	for t := range groups {
		if !t.Valid() {
			return nil, fmt.Errorf("invalid canonical type %q", t)
		}
	}
	return &TypeMap{lookup: lookup}, nil
}

// MustTypeMap is like NewTypeMap but panics on error
func MustTypeMap(groups map[Type][]string) *TypeMap {
	m, err := NewTypeMap(groups)
	if err != nil {
		panic(err)
	}
	return m
}

// Map returns the canonical type for a vendor type name. Lookup is an exact,
// case-sensitive match.
func (m *TypeMap) Map(vendorType string) (Type, error) {
	if t, ok := m.lookup[vendorType]; ok {
		return t, nil
	}
	return "", &UnmappedTypeError{Name: vendorType}
}

// WithAliases returns a copy of m with the given vendor names added. An alias
// replaces an existing entry of the same name.
func (m *TypeMap) WithAliases(aliases map[string]Type) *TypeMap {
	lookup := make(map[string]Type, len(m.lookup)+len(aliases))
	for k, v := range m.lookup {
		lookup[k] = v
	}
	for k, v := range aliases {
		lookup[k] = v
	}
	return &TypeMap{lookup: lookup}
}

// Group returns the vendor names mapped to t, sorted
func (m *TypeMap) Group(t Type) []string {
	var names []string
	for name, c := range m.lookup {
		if c == t {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of vendor names in the map
func (m *TypeMap) Len() int {
	return len(m.lookup)
}

// SQLServerTypes maps SQL Server system type names
var SQLServerTypes = MustTypeMap(map[Type][]string{
	TypeString: {
		"string", "varchar", "nvarchar", "char", "nchar", "text", "ntext",
		"binary", "varbinary", "image", "guid", "blob",
		"uniqueidentifier", "sysname", "xml", "sql_variant",
	},
	TypeDatetime: {"date", "datetime", "datetime2", "smalldatetime", "datetimeoffset", "time", "timestamp"},
	TypeInteger:  {"int", "integer", "smallint", "tinyint", "bigint"},
	TypeFloat:    {"real", "float", "decimal", "numeric", "money", "smallmoney"},
	TypeBoolean:  {"bit", "boolean"},
})

// PostgresTypes maps PostgreSQL information_schema data type names
var PostgresTypes = MustTypeMap(map[Type][]string{
	TypeString: {
		"character varying", "character", "text", "bytea", "uuid", "json", "jsonb",
		"xml", "inet", "cidr", "macaddr", "interval", "bit", "bit varying",
		"macaddr8", "tsvector", "tsquery", "ARRAY",
		"int4range", "int8range", "numrange", "tsrange", "tstzrange", "daterange",
		"point", "line", "lseg", "box", "path", "polygon", "circle",
	},
	TypeDatetime: {
		"date", "timestamp without time zone", "timestamp with time zone",
		"time without time zone", "time with time zone",
	},
	TypeInteger: {"smallint", "integer", "bigint"},
	TypeFloat:   {"real", "double precision", "numeric", "money"},
	TypeBoolean: {"boolean"},
})

// MySQLTypes maps MySQL information_schema data type names
var MySQLTypes = MustTypeMap(map[Type][]string{
	TypeString: {
		"char", "varchar", "tinytext", "text", "mediumtext", "longtext",
		"binary", "varbinary", "tinyblob", "blob", "mediumblob", "longblob",
		"enum", "set", "json", "geometry", "point", "linestring", "polygon",
		"multipoint", "multilinestring", "multipolygon", "geomcollection", "geometrycollection",
	},
	TypeDatetime: {"date", "datetime", "timestamp", "time"},
	TypeInteger:  {"tinyint", "smallint", "mediumint", "int", "bigint", "year"},
	TypeFloat:    {"decimal", "float", "double"},
	TypeBoolean:  {"bit"},
})

// SQLiteTypes maps lower-cased SQLite declared type names without length
var SQLiteTypes = MustTypeMap(map[Type][]string{
	TypeString: {
		"text", "varchar", "char", "character", "nvarchar", "nchar", "varying character",
		"native character", "clob", "blob", "json", "uuid",
	},
	TypeDatetime: {"date", "datetime", "timestamp", "time"},
	TypeInteger:  {"integer", "int", "tinyint", "smallint", "mediumint", "bigint", "unsigned big int", "int2", "int8"},
	TypeFloat:    {"real", "double", "double precision", "float", "numeric", "decimal"},
	TypeBoolean:  {"boolean", "bool"},
})
