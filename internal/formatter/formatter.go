package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbblueprint/internal/schema"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
	formatYAML     = "yaml"
)

// DefaultFormat is used when no output format is configured
const DefaultFormat = formatText

// Formatter renders a loaded schema
type Formatter interface {
	Format(s *schema.Schema) error
}

// New returns the single-output formatter for format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case formatText:
		return NewTextFormatter(w), nil
	case formatMarkdown:
		return NewMarkdownFormatter(w), nil
	case formatYAML:
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'yaml')", format)
	}
}

// columnAttributes lists the attributes shown after a column's type
func columnAttributes(b *schema.Blueprint, col schema.Column) []string {
	var attrs []string

	if isPrimaryKeyColumn(b, col.Name) {
		attrs = append(attrs, "PK")
	}
	if col.Unsigned {
		attrs = append(attrs, "UNSIGNED")
	}
	if col.Autoincrement {
		attrs = append(attrs, "AUTOINCREMENT")
	}
	if b.IsUnique(col.Name) && !isPrimaryKeyColumn(b, col.Name) {
		attrs = append(attrs, "UNIQUE")
	}
	if !col.Nullable {
		attrs = append(attrs, "NOT NULL")
	}
	if col.Default != nil {
		attrs = append(attrs, fmt.Sprintf("DEFAULT %s", *col.Default))
	}

	return attrs
}

func isPrimaryKeyColumn(b *schema.Blueprint, name string) bool {
	for _, pk := range b.PrimaryKey().Columns {
		if pk == name {
			return true
		}
	}
	return false
}

// relationTarget renders "target(col, col)"
func relationTarget(rel schema.Relation) string {
	return fmt.Sprintf("%s(%s)", rel.Target.Table, strings.Join(rel.References, ", "))
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
