package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/dbblueprint/internal/schema"
	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"text", "markdown", "yaml"} {
		f, err := New(format, &bytes.Buffer{})
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := New("html", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewDefaultFormat(t *testing.T) {
	f, err := New(DefaultFormat, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &TextFormatter{}, f)
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(loadFixture(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "TABLE departments (PK: id)\n"))
	assert.Contains(t, out, "  id: integer PK AUTOINCREMENT NOT NULL\n")
	assert.Contains(t, out, "  name: string NOT NULL -- display name\n")
	assert.Contains(t, out, "  email: string UNIQUE NOT NULL\n")
	assert.Contains(t, out, "  hired_at: datetime NOT NULL DEFAULT (getdate())\n")
	assert.Contains(t, out, "  dept_id: integer\n")
	assert.Contains(t, out, "    (dept_id) → departments(id)\n")
	assert.Contains(t, out, "    (customer_id) → sales.customers(id)\n")
	assert.Contains(t, out, "    (mentor_id) → mentors(id)\n")
	assert.Contains(t, out, "    IX_employees_dept (dept_id, hired_at)\n")
	assert.Contains(t, out, "    UQ_employees_email (email) UNIQUE\n")
	assert.Contains(t, out, "TABLE sales.customers (PK: id)\n")
	assert.Contains(t, out, "  REFERENCED BY:\n    employees(dept_id)\n")
	assert.Contains(t, out, "WARNINGS:\n  employees (FK_employees_mentors): owning schema of mentors not found")

	// Tables are written in load order
	assert.Less(t, strings.Index(out, "TABLE departments"), strings.Index(out, "TABLE employees"))
	assert.Less(t, strings.Index(out, "TABLE employees"), strings.Index(out, "TABLE sales.customers"))
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(loadFixture(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Database Schema: hr\n"))
	assert.Contains(t, out, "## employees\n\nModel: `Employee`\n")
	assert.Contains(t, out, "## sales.customers\n\nModel: `Customer`\n")
	assert.Contains(t, out, "- **id:** integer, PK, AUTOINCREMENT, NOT NULL\n")
	assert.Contains(t, out, "- **name:** string, NOT NULL (display name)\n")
	assert.Contains(t, out, "- **credit:** float\n")
	assert.Contains(t, out, "- customer_id → sales.customers(id) `FK_employees_customers`\n")
	assert.Contains(t, out, "- UQ_employees_email on (email), unique\n")
	assert.Contains(t, out, "- IX_employees_dept on (dept_id, hired_at)\n")
	assert.Contains(t, out, "### Referenced by\n\n- employees.customer_id → id\n")
	assert.Contains(t, out, "## Warnings\n\n- employees (FK_employees_mentors)")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf).Format(loadFixture(t)))

	var doc yamlSchema
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "hr", doc.Database)
	assert.Equal(t, "sqlsrv", doc.Connection)
	assert.Equal(t, "dbo", doc.DefaultSchema)
	require.Len(t, doc.Tables, 3)
	assert.Len(t, doc.Warnings, 1)

	employees := doc.Tables[1]
	assert.Equal(t, "employees", employees.Name)
	assert.Equal(t, "Employee", employees.Model)
	assert.Equal(t, []string{"id"}, employees.PrimaryKey)
	require.Len(t, employees.Columns, 6)
	assert.Equal(t, "DeptID", employees.Columns[1].Field)
	assert.True(t, employees.Columns[1].Nullable)
	require.NotNil(t, employees.Columns[3].Default)
	assert.Equal(t, "(getdate())", *employees.Columns[3].Default)
	require.Len(t, employees.Relations, 3)
	assert.Equal(t, "sales.customers", employees.Relations[1].Table)
	assert.Equal(t, "hr", employees.Relations[1].Database)

	customers := doc.Tables[2]
	assert.Equal(t, []yamlReference{{Table: "employees", Columns: []string{"customer_id"}}}, customers.ReferencedBy)
}

func TestMultiFileFormatter(t *testing.T) {
	s := loadFixture(t)

	tests := []struct {
		format string
		ext    string
		check  string
	}{
		{format: "markdown", ext: ".md", check: "- **employees** (references: departments, sales.customers, mentors)"},
		{format: "text", ext: ".txt", check: "employees (references: departments,sales.customers,mentors)"},
		{format: "yaml", ext: ".yaml", check: "model: Employee"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "schema")
			require.NoError(t, NewMultiFileFormatter(dir, tt.format).Format(s))

			overview, err := os.ReadFile(filepath.Join(dir, "_overview"+tt.ext))
			require.NoError(t, err)
			assert.Contains(t, string(overview), tt.check)

			for _, name := range []string{"departments", "employees", "sales.customers"} {
				_, err := os.Stat(filepath.Join(dir, name+tt.ext))
				assert.NoError(t, err, name)
			}
		})
	}
}

func TestMultiFileFormatterInvalidFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "schema")
	err := NewMultiFileFormatter(dir, "html").Format(loadFixture(t))
	assert.Error(t, err)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestModelName(t *testing.T) {
	tests := map[string]string{
		"departments": "Department",
		"order_items": "OrderItem",
		"employees":   "Employee",
	}
	for table, want := range tests {
		assert.Equal(t, want, ModelName(schema.Identifier{Schema: "sales", Table: table}), table)
	}
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "UserID", FieldName("user_id"))
	assert.Equal(t, "CreatedAt", FieldName("created_at"))
}
