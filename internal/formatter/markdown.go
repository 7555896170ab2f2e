package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbblueprint/internal/schema"
)

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	_, _ = fmt.Fprintf(f.writer, "# Database Schema: %s\n", s.Name())
	_, _ = fmt.Fprintln(f.writer)

	for _, b := range s.Blueprints() {
		f.FormatTable(s, b)
	}

	f.formatWarnings(s.Warnings())
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(s *schema.Schema, b *schema.Blueprint) {
	// Table header
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", b.Table())
	_, _ = fmt.Fprintf(f.writer, "Model: `%s`\n\n", ModelName(b.Table()))

	// Columns
	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	for _, col := range b.Columns() {
		line := fmt.Sprintf("- **%s:** %s", col.Name, col.Type)
		if attrs := columnAttributes(b, col); len(attrs) > 0 {
			line += ", " + strings.Join(attrs, ", ")
		}
		if col.Comment != nil {
			line += fmt.Sprintf(" (%s)", *col.Comment)
		}
		_, _ = fmt.Fprintln(f.writer, line)
	}
	_, _ = fmt.Fprintln(f.writer)

	// Relations
	if relations := b.Relations(); len(relations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### References")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range relations {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s", joinColumns(rel.Columns), relationTarget(rel))
			if rel.Name != "" {
				_, _ = fmt.Fprintf(f.writer, " `%s`", rel.Name)
			}
			_, _ = fmt.Fprintln(f.writer)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	// Indexes
	if indexes := b.Indexes(); len(indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Indexes")
		_, _ = fmt.Fprintln(f.writer)
		for _, idx := range indexes {
			if idx.Kind == schema.IndexUnique {
				_, _ = fmt.Fprintf(f.writer, "- %s on (%s), unique\n", idx.Name, joinColumns(idx.Columns))
			} else {
				_, _ = fmt.Fprintf(f.writer, "- %s on (%s)\n", idx.Name, joinColumns(idx.Columns))
			}
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	// Incoming relations
	if refs := s.Referencing(b); len(refs) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Referenced by")
		_, _ = fmt.Fprintln(f.writer)
		for _, ref := range refs {
			_, _ = fmt.Fprintf(f.writer, "- %s.%s → %s\n",
				ref.Blueprint.Table(),
				joinColumns(ref.Relation.Columns),
				joinColumns(ref.Relation.References))
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}

func (f *MarkdownFormatter) formatWarnings(warnings []schema.Warning) {
	if len(warnings) == 0 {
		return
	}
	_, _ = fmt.Fprintln(f.writer, "## Warnings")
	_, _ = fmt.Fprintln(f.writer)
	for _, w := range warnings {
		_, _ = fmt.Fprintf(f.writer, "- %s\n", w)
	}
	_, _ = fmt.Fprintln(f.writer)
}
