package formatter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tordrt/dbblueprint/internal/schema"
)

type stubIntrospector struct {
	tables      []schema.Identifier
	columns     map[schema.Identifier][]schema.RawColumn
	indexes     map[schema.Identifier][]schema.RawIndex
	foreignKeys map[schema.Identifier][]schema.RawForeignKey
	owners      map[string]string
}

func (s *stubIntrospector) Database() string      { return "hr" }
func (s *stubIntrospector) DefaultSchema() string { return "dbo" }

func (s *stubIntrospector) ListTables(context.Context) ([]schema.Identifier, error) {
	return s.tables, nil
}

func (s *stubIntrospector) ListColumns(_ context.Context, table schema.Identifier) ([]schema.RawColumn, error) {
	return s.columns[table], nil
}

func (s *stubIntrospector) ListIndexes(_ context.Context, table schema.Identifier) ([]schema.RawIndex, error) {
	return s.indexes[table], nil
}

func (s *stubIntrospector) ListForeignKeys(_ context.Context, table schema.Identifier) ([]schema.RawForeignKey, error) {
	return s.foreignKeys[table], nil
}

func (s *stubIntrospector) SchemaOf(_ context.Context, table string) (string, error) {
	owner, ok := s.owners[table]
	if !ok {
		return "", schema.ErrOwnerNotFound
	}
	return owner, nil
}

func (s *stubIntrospector) UserTypes(context.Context) ([]schema.UserType, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

// loadFixture loads departments, employees and sales.customers. Employees
// carries one relation whose target owner is unknown, which yields a warning.
func loadFixture(t *testing.T) *schema.Schema {
	t.Helper()

	departments := schema.Identifier{Table: "departments"}
	employees := schema.Identifier{Table: "employees"}
	customers := schema.Identifier{Schema: "sales", Table: "customers"}

	in := &stubIntrospector{
		tables: []schema.Identifier{
			{Schema: "dbo", Table: "departments"},
			{Schema: "dbo", Table: "employees"},
			customers,
		},
		columns: map[schema.Identifier][]schema.RawColumn{
			departments: {
				{Name: "id", TypeName: "int", Autoincrement: true},
				{Name: "name", TypeName: "nvarchar", Comment: strPtr("display name")},
			},
			employees: {
				{Name: "id", TypeName: "int", Autoincrement: true},
				{Name: "dept_id", TypeName: "int", Nullable: true},
				{Name: "email", TypeName: "varchar"},
				{Name: "hired_at", TypeName: "datetime2", Default: strPtr("(getdate())")},
				{Name: "customer_id", TypeName: "int", Nullable: true},
				{Name: "mentor_id", TypeName: "int", Nullable: true},
			},
			customers: {
				{Name: "id", TypeName: "int"},
				{Name: "credit", TypeName: "money", Nullable: true},
			},
		},
		indexes: map[schema.Identifier][]schema.RawIndex{
			departments: {{Name: "PK_departments", Primary: true, Unique: true, Columns: []string{"id"}}},
			employees: {
				{Name: "PK_employees", Primary: true, Unique: true, Columns: []string{"id"}},
				{Name: "UQ_employees_email", Unique: true, Columns: []string{"email"}},
				{Name: "IX_employees_dept", Columns: []string{"dept_id", "hired_at"}},
			},
			customers: {{Name: "PK_customers", Primary: true, Unique: true, Columns: []string{"id"}}},
		},
		foreignKeys: map[schema.Identifier][]schema.RawForeignKey{
			employees: {
				{Name: "FK_employees_departments", Columns: []string{"dept_id"}, ForeignTable: "departments", ForeignColumns: []string{"id"}},
				{Name: "FK_employees_customers", Columns: []string{"customer_id"}, ForeignTable: "customers", ForeignColumns: []string{"id"}},
				{Name: "FK_employees_mentors", Columns: []string{"mentor_id"}, ForeignTable: "mentors", ForeignColumns: []string{"id"}},
			},
		},
		owners: map[string]string{
			"departments": "dbo",
			"employees":   "dbo",
			"customers":   "sales",
		},
	}

	s, err := schema.Load(context.Background(), in, schema.Options{Connection: "sqlsrv"})
	require.NoError(t, err)
	return s
}
