package schema

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Options configures a schema load.
//
// All fields are optional:
//   - Connection: name recorded on every blueprint
//   - DefaultSchema: defaults to the introspector's default schema
//   - Types: defaults to the introspector's type map, then SQLServerTypes
//   - Tables: nil loads every table; names may be "table" or "schema.table"
//   - ExcludeTables: applied after Tables
//   - Logger: nil discards log output
type Options struct {
	Connection    string
	DefaultSchema string
	Types         *TypeMap
	Tables        []string
	ExcludeTables []string
	Logger        logrus.FieldLogger
}

// Reference is a relation of Blueprint that points at another table
type Reference struct {
	Blueprint *Blueprint
	Relation  Relation
}

// Schema holds the blueprints of every table of one database. A Schema is
// fully loaded by Load and read-only afterwards; concurrent readers are safe.
type Schema struct {
	name          string
	connection    string
	defaultSchema string
	types         *TypeMap

	tables   map[Identifier]*Blueprint
	order    []Identifier
	warnings []Warning
}

// Load reads all table metadata through in and returns the loaded schema.
// Any failure aborts the load; no partially loaded schema is returned.
func Load(ctx context.Context, in Introspector, opts Options) (*Schema, error) {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	defaultSchema := opts.DefaultSchema
	if defaultSchema == "" {
		defaultSchema = in.DefaultSchema()
	}

	types := opts.Types
	if types == nil {
		if p, ok := in.(TypeProvider); ok {
			types = p.Types()
		} else {
			types = SQLServerTypes
		}
	}

	s := &Schema{
		name:          in.Database(),
		connection:    opts.Connection,
		defaultSchema: defaultSchema,
		tables:        make(map[Identifier]*Blueprint),
	}
	logger = logger.WithFields(logrus.Fields{"database": s.name, "connection": s.connection})

	aliases, warnings, err := resolveUserTypes(ctx, in, types)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user types: %w", err)
	}
	for _, w := range warnings {
		logger.Warn(w.Message)
	}
	s.warnings = append(s.warnings, warnings...)
	s.types = types.WithAliases(aliases)

	tables, err := s.tableNames(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	relations := NewRelationResolver(in, s.name, s.defaultSchema, logger)
	for _, table := range tables {
		logger.WithField("table", table.String()).Debug("loading table")

		b, err := s.loadTable(ctx, in, relations, table)
		if err != nil {
			return nil, fmt.Errorf("failed to load table %s: %w", table, err)
		}
		s.tables[table] = b
		s.order = append(s.order, table)
	}
	s.warnings = append(s.warnings, relations.Warnings()...)

	logger.WithField("tables", len(s.order)).Debug("schema loaded")
	return s, nil
}

// resolveUserTypes maps each user type through its base system type. Types
// without a base, or with a base the map does not know, become strings.
func resolveUserTypes(ctx context.Context, in Introspector, types *TypeMap) (map[string]Type, []Warning, error) {
	userTypes, err := in.UserTypes(ctx)
	if err != nil {
		return nil, nil, err
	}

	aliases := make(map[string]Type, len(userTypes))
	var warnings []Warning
	for _, ut := range userTypes {
		base := ut.BaseName
		if base == "" {
			aliases[ut.Name] = TypeString
			continue
		}
		t, err := types.Map(base)
		if err != nil {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("user type %s has unmapped base type %s, treated as string", ut.Name, base),
			})
			t = TypeString
		}
		aliases[ut.Name] = t
	}
	return aliases, warnings, nil
}

// tableNames returns the identifiers to load, normalized against the default schema
func (s *Schema) tableNames(ctx context.Context, in Introspector, opts Options) ([]Identifier, error) {
	listed, err := in.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	include := s.identifierSet(opts.Tables)
	exclude := s.identifierSet(opts.ExcludeTables)

	var tables []Identifier
	for _, id := range listed {
		id = s.normalize(id)
		if len(include) > 0 && !include[id] {
			continue
		}
		if exclude[id] {
			continue
		}
		tables = append(tables, id)
	}
	return tables, nil
}

func (s *Schema) identifierSet(names []string) map[Identifier]bool {
	set := make(map[Identifier]bool, len(names))
	for _, name := range names {
		set[s.normalize(ParseIdentifier(name))] = true
	}
	return set
}

func (s *Schema) normalize(id Identifier) Identifier {
	return qualify(id.Schema, id.Table, s.defaultSchema)
}

// loadTable builds the blueprint of one table
func (s *Schema) loadTable(ctx context.Context, in Introspector, relations *RelationResolver, table Identifier) (*Blueprint, error) {
	b := NewBlueprint(s.connection, s.name, table)

	columns, err := in.ListColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	for _, raw := range columns {
		col, err := NormalizeColumn(s.types, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize column %s: %w", raw.Name, err)
		}
		if err := b.WithColumn(col); err != nil {
			return nil, err
		}
	}

	indexes, err := in.ListIndexes(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	pk, secondary, err := ResolveKeys(indexes)
	if err != nil {
		return nil, err
	}
	if err := b.WithPrimaryKey(pk); err != nil {
		return nil, err
	}
	for _, idx := range secondary {
		if err := b.WithIndex(idx); err != nil {
			return nil, err
		}
	}

	foreignKeys, err := in.ListForeignKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys: %w", err)
	}
	for _, raw := range foreignKeys {
		rel, err := relations.Resolve(ctx, table, raw)
		if err != nil {
			return nil, err
		}
		if err := b.WithRelation(rel); err != nil {
			return nil, err
		}
	}

	b.seal()
	return b, nil
}

// Name returns the database name
func (s *Schema) Name() string {
	return s.name
}

// Connection returns the connection name
func (s *Schema) Connection() string {
	return s.connection
}

// DefaultSchema returns the schema whose tables are kept unqualified
func (s *Schema) DefaultSchema() string {
	return s.defaultSchema
}

// Types returns the type map used for the load, including user type aliases
func (s *Schema) Types() *TypeMap {
	return s.types
}

// Has reports whether the schema holds the named table ("table" or "schema.table")
func (s *Schema) Has(name string) bool {
	_, ok := s.tables[s.normalize(ParseIdentifier(name))]
	return ok
}

// Table returns the blueprint of the named table ("table" or "schema.table")
func (s *Schema) Table(name string) (*Blueprint, error) {
	return s.Lookup(ParseIdentifier(name))
}

// Lookup returns the blueprint for id
func (s *Schema) Lookup(id Identifier) (*Blueprint, error) {
	b, ok := s.tables[s.normalize(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s does not belong to schema %s", ErrTableNotFound, id, s.name)
	}
	return b, nil
}

// Tables returns the blueprints keyed by table identifier
func (s *Schema) Tables() map[Identifier]*Blueprint {
	out := make(map[Identifier]*Blueprint, len(s.tables))
	for id, b := range s.tables {
		out[id] = b
	}
	return out
}

// Blueprints returns the blueprints in load order
func (s *Schema) Blueprints() []*Blueprint {
	out := make([]*Blueprint, len(s.order))
	for i, id := range s.order {
		out[i] = s.tables[id]
	}
	return out
}

// Referencing returns every relation in the schema that targets b
func (s *Schema) Referencing(b *Blueprint) []Reference {
	if b == nil {
		return nil
	}
	var refs []Reference
	for _, id := range s.order {
		blueprint := s.tables[id]
		for _, rel := range blueprint.References(b) {
			refs = append(refs, Reference{Blueprint: blueprint, Relation: rel})
		}
	}
	return refs
}

// Warnings returns the metadata degradations recorded during the load
func (s *Schema) Warnings() []Warning {
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
