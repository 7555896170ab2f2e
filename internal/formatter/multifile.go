package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/dbblueprint/internal/schema"
)

// MultiFileFormatter writes schema to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text", "markdown" or "yaml"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes an overview file plus one file per table
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if _, err := New(f.OutputFormat, io.Discard); err != nil {
		return err
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write overview file
	if err := f.writeFile("_overview", func(w io.Writer) error { return f.writeOverview(w, s) }); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	// Write per-table files
	for _, b := range s.Blueprints() {
		if err := f.writeFile(b.Table().String(), func(w io.Writer) error { return f.writeTable(w, s, b) }); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", b.Table(), err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeFile(name string, write func(io.Writer) error) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name+f.getFileExtension()))
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (f *MultiFileFormatter) writeTable(w io.Writer, s *schema.Schema, b *schema.Blueprint) error {
	switch f.OutputFormat {
	case formatMarkdown:
		NewMarkdownFormatter(w).FormatTable(s, b)
	case formatYAML:
		return NewYAMLFormatter(w).FormatTable(s, b)
	default:
		NewTextFormatter(w).formatTable(s, b)
	}
	return nil
}

// writeOverview lists the tables alphabetically with their outgoing references
func (f *MultiFileFormatter) writeOverview(w io.Writer, s *schema.Schema) error {
	blueprints := s.Blueprints()
	sort.Slice(blueprints, func(i, j int) bool {
		return blueprints[i].Table().String() < blueprints[j].Table().String()
	})

	switch f.OutputFormat {
	case formatMarkdown:
		_, _ = fmt.Fprintf(w, "# Schema Overview: %s\n\n", s.Name())
		_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
		_, _ = fmt.Fprintf(w, "## Tables\n\n")
		for _, b := range blueprints {
			_, _ = fmt.Fprintf(w, "- **%s**%s\n", b.Table(), referencesSuffix(b, ", "))
		}
		NewMarkdownFormatter(w).formatWarnings(s.Warnings())
	case formatYAML:
		overview := yamlSchema{
			Database:      s.Name(),
			Connection:    s.Connection(),
			DefaultSchema: s.DefaultSchema(),
		}
		for _, b := range blueprints {
			overview.Tables = append(overview.Tables, yamlTable{Name: b.Table().String(), Model: ModelName(b.Table())})
		}
		for _, warning := range s.Warnings() {
			overview.Warnings = append(overview.Warnings, warning.String())
		}
		return NewYAMLFormatter(w).encode(overview)
	default:
		_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW %s\n", s.Name())
		_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())
		for _, b := range blueprints {
			_, _ = fmt.Fprintf(w, "%s%s\n", b.Table(), referencesSuffix(b, ","))
		}
	}

	return nil
}

func referencesSuffix(b *schema.Blueprint, sep string) string {
	relations := b.Relations()
	if len(relations) == 0 {
		return ""
	}
	targets := make([]string, len(relations))
	for i, rel := range relations {
		targets[i] = rel.Target.Table.String()
	}
	return fmt.Sprintf(" (references: %s)", strings.Join(targets, sep))
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case formatMarkdown:
		return ".md"
	case formatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}
