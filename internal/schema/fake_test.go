package schema

import (
	"context"
	"errors"
)

type fakeIntrospector struct {
	database      string
	defaultSchema string
	tables        []Identifier
	columns       map[Identifier][]RawColumn
	indexes       map[Identifier][]RawIndex
	foreignKeys   map[Identifier][]RawForeignKey
	owners        map[string]string
	ownerErr      error
	userTypes     []UserType
	lookups       int
	databases     []string
}

func newFake() *fakeIntrospector {
	return &fakeIntrospector{
		database:      "hr",
		defaultSchema: "dbo",
		columns:       make(map[Identifier][]RawColumn),
		indexes:       make(map[Identifier][]RawIndex),
		foreignKeys:   make(map[Identifier][]RawForeignKey),
		owners:        make(map[string]string),
	}
}

func (f *fakeIntrospector) Database() string      { return f.database }
func (f *fakeIntrospector) DefaultSchema() string { return f.defaultSchema }

func (f *fakeIntrospector) ListTables(context.Context) ([]Identifier, error) {
	return f.tables, nil
}

func (f *fakeIntrospector) ListColumns(_ context.Context, table Identifier) ([]RawColumn, error) {
	return f.columns[table], nil
}

func (f *fakeIntrospector) ListIndexes(_ context.Context, table Identifier) ([]RawIndex, error) {
	return f.indexes[table], nil
}

func (f *fakeIntrospector) ListForeignKeys(_ context.Context, table Identifier) ([]RawForeignKey, error) {
	return f.foreignKeys[table], nil
}

func (f *fakeIntrospector) SchemaOf(_ context.Context, table string) (string, error) {
	f.lookups++
	if f.ownerErr != nil {
		return "", f.ownerErr
	}
	owner, ok := f.owners[table]
	if !ok {
		return "", ErrOwnerNotFound
	}
	return owner, nil
}

func (f *fakeIntrospector) UserTypes(context.Context) ([]UserType, error) {
	return f.userTypes, nil
}

func (f *fakeIntrospector) ListDatabases(context.Context) ([]string, error) {
	if f.databases == nil {
		return nil, errors.New("no databases configured")
	}
	return f.databases, nil
}

// addTable registers a table in the default schema with an integer id primary key
func (f *fakeIntrospector) addTable(name string, extra ...RawColumn) Identifier {
	id := Identifier{Table: name}
	f.tables = append(f.tables, Identifier{Schema: f.defaultSchema, Table: name})
	f.owners[name] = f.defaultSchema
	f.columns[id] = append([]RawColumn{{Name: "id", TypeName: "int", Autoincrement: true}}, extra...)
	f.indexes[id] = []RawIndex{{Name: "PK_" + name, Primary: true, Unique: true, Columns: []string{"id"}}}
	return id
}
