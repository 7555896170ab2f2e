package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbblueprint/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i, b := range s.Blueprints() {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}
		f.formatTable(s, b)
	}

	if warnings := s.Warnings(); len(warnings) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "WARNINGS:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(f.writer, "  %s\n", w)
		}
	}
	return nil
}

func (f *TextFormatter) formatTable(s *schema.Schema, b *schema.Blueprint) {
	// Table header with primary key
	pkStr := ""
	if pk := b.PrimaryKey().Columns; len(pk) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", joinColumns(pk))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", b.Table(), pkStr)

	// Columns
	for _, col := range b.Columns() {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatColumn(b, col))
	}

	// Relations
	if relations := b.Relations(); len(relations) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range relations {
			_, _ = fmt.Fprintf(f.writer, "    (%s) → %s\n", joinColumns(rel.Columns), relationTarget(rel))
		}
	}

	// Indexes
	if indexes := b.Indexes(); len(indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  INDEXES:")
		for _, idx := range indexes {
			unique := ""
			if idx.Kind == schema.IndexUnique {
				unique = " UNIQUE"
			}
			_, _ = fmt.Fprintf(f.writer, "    %s (%s)%s\n", idx.Name, joinColumns(idx.Columns), unique)
		}
	}

	// Incoming relations
	if refs := s.Referencing(b); len(refs) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  REFERENCED BY:")
		for _, ref := range refs {
			_, _ = fmt.Fprintf(f.writer, "    %s(%s)\n", ref.Blueprint.Table(), joinColumns(ref.Relation.Columns))
		}
	}
}

func (f *TextFormatter) formatColumn(b *schema.Blueprint, col schema.Column) string {
	parts := []string{col.Name + ":", string(col.Type)}
	parts = append(parts, columnAttributes(b, col)...)

	line := strings.Join(parts, " ")
	if col.Comment != nil {
		line += " -- " + *col.Comment
	}
	return line
}
