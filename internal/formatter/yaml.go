package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/dbblueprint/internal/schema"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats schema as a YAML document for code generators
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

type yamlSchema struct {
	Database      string      `yaml:"database"`
	Connection    string      `yaml:"connection,omitempty"`
	DefaultSchema string      `yaml:"default_schema,omitempty"`
	Tables        []yamlTable `yaml:"tables"`
	Warnings      []string    `yaml:"warnings,omitempty"`
}

type yamlTable struct {
	Name         string          `yaml:"name"`
	Model        string          `yaml:"model"`
	PrimaryKey   []string        `yaml:"primary_key,omitempty"`
	Columns      []yamlColumn    `yaml:"columns"`
	Indexes      []yamlIndex     `yaml:"indexes,omitempty"`
	Relations    []yamlRelation  `yaml:"relations,omitempty"`
	ReferencedBy []yamlReference `yaml:"referenced_by,omitempty"`
}

type yamlColumn struct {
	Name          string  `yaml:"name"`
	Field         string  `yaml:"field"`
	Type          string  `yaml:"type"`
	Unsigned      bool    `yaml:"unsigned,omitempty"`
	Nullable      bool    `yaml:"nullable"`
	Autoincrement bool    `yaml:"autoincrement,omitempty"`
	Default       *string `yaml:"default,omitempty"`
	Comment       *string `yaml:"comment,omitempty"`
}

type yamlIndex struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Columns []string `yaml:"columns"`
}

type yamlRelation struct {
	Name       string   `yaml:"name,omitempty"`
	Columns    []string `yaml:"columns"`
	Database   string   `yaml:"database"`
	Table      string   `yaml:"table"`
	References []string `yaml:"references"`
}

type yamlReference struct {
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
}

// Format writes the schema as YAML
func (f *YAMLFormatter) Format(s *schema.Schema) error {
	doc := yamlSchema{
		Database:      s.Name(),
		Connection:    s.Connection(),
		DefaultSchema: s.DefaultSchema(),
		Tables:        []yamlTable{},
	}
	for _, b := range s.Blueprints() {
		doc.Tables = append(doc.Tables, toYAMLTable(s, b))
	}
	for _, w := range s.Warnings() {
		doc.Warnings = append(doc.Warnings, w.String())
	}
	return f.encode(doc)
}

// FormatTable writes a single table document
func (f *YAMLFormatter) FormatTable(s *schema.Schema, b *schema.Blueprint) error {
	return f.encode(toYAMLTable(s, b))
}

func (f *YAMLFormatter) encode(v any) error {
	enc := yaml.NewEncoder(f.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func toYAMLTable(s *schema.Schema, b *schema.Blueprint) yamlTable {
	table := yamlTable{
		Name:       b.Table().String(),
		Model:      ModelName(b.Table()),
		PrimaryKey: b.PrimaryKey().Columns,
	}

	for _, col := range b.Columns() {
		table.Columns = append(table.Columns, yamlColumn{
			Name:          col.Name,
			Field:         FieldName(col.Name),
			Type:          string(col.Type),
			Unsigned:      col.Unsigned,
			Nullable:      col.Nullable,
			Autoincrement: col.Autoincrement,
			Default:       col.Default,
			Comment:       col.Comment,
		})
	}

	for _, idx := range b.Indexes() {
		table.Indexes = append(table.Indexes, yamlIndex{
			Name:    idx.Name,
			Kind:    string(idx.Kind),
			Columns: idx.Columns,
		})
	}

	for _, rel := range b.Relations() {
		table.Relations = append(table.Relations, yamlRelation{
			Name:       rel.Name,
			Columns:    rel.Columns,
			Database:   rel.Target.Database,
			Table:      rel.Target.Table.String(),
			References: rel.References,
		})
	}

	for _, ref := range s.Referencing(b) {
		table.ReferencedBy = append(table.ReferencedBy, yamlReference{
			Table:   ref.Blueprint.Table().String(),
			Columns: ref.Relation.Columns,
		})
	}

	return table
}
