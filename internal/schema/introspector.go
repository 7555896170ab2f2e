package schema

import "context"

// Introspector queries a live database for structural metadata. An unqualified
// Identifier passed to an Introspector names a table in its default schema.
type Introspector interface {
	OwnerLookup

	// Database returns the name of the connected database
	Database() string
	// DefaultSchema returns the schema unqualified names resolve to
	DefaultSchema() string

	ListTables(ctx context.Context) ([]Identifier, error)
	ListColumns(ctx context.Context, table Identifier) ([]RawColumn, error)
	ListIndexes(ctx context.Context, table Identifier) ([]RawIndex, error)
	ListForeignKeys(ctx context.Context, table Identifier) ([]RawForeignKey, error)
	// UserTypes returns user-defined and assembly types with their base system type
	UserTypes(ctx context.Context) ([]UserType, error)
}

// TypeProvider is implemented by introspectors that know their vendor's type map
type TypeProvider interface {
	Types() *TypeMap
}

// DatabaseLister enumerates the databases reachable through a connection
type DatabaseLister interface {
	ListDatabases(ctx context.Context) ([]string, error)
}

// Databases lists the databases of lister without the excluded (system) ones
func Databases(ctx context.Context, lister DatabaseLister, exclude ...string) ([]string, error) {
	names, err := lister.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if !skip[name] {
			filtered = append(filtered, name)
		}
	}
	return filtered, nil
}
