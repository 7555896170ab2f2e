package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tordrt/dbblueprint"
	"github.com/tordrt/dbblueprint/internal/config"
)

// overrideFlags are the flags forwarded to the config loader when set
var overrideFlags = []string{
	"url", "connection", "schema", "tables", "exclude", "format",
	"output", "output-dir", "split-threshold", "log-level",
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbblueprint",
		Short: "Load database tables into canonical blueprints",
		Long: `dbblueprint reads table metadata from SQL Server, PostgreSQL, MySQL or SQLite and
prints vendor-independent blueprints: canonical column types, keys, indexes and
schema-qualified relations, ready for code generators.`,
		SilenceUsage: true,
		RunE:         runLoad,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: dbblueprint.yaml if present)")
	flags.StringP("url", "u", "", "Database URL (sqlserver://, postgres://, mysql:// or sqlite://)")
	flags.String("log-level", "", "Log level: debug, info, warn or error (default: warn)")

	rootCmd.Flags().String("connection", "", "Connection name recorded on every blueprint")
	rootCmd.Flags().StringP("schema", "s", "", "Default schema (default: dbo, public, the MySQL database or main)")
	rootCmd.Flags().StringP("tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringP("exclude", "x", "", "Tables to skip (comma-separated, optional)")
	rootCmd.Flags().StringP("format", "f", "", "Output format: text, markdown or yaml (default: text)")
	rootCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringP("output-dir", "d", "", "Output directory for multi-file output")
	rootCmd.Flags().Int("split-threshold", 0, "Split into multiple files when table count exceeds this (requires --output-dir)")

	rootCmd.AddCommand(&cobra.Command{
		Use:          "databases",
		Short:        "List the non-system databases on the server",
		SilenceUsage: true,
		RunE:         runDatabases,
	})

	return rootCmd
}

// loadConfig merges the config file, environment and the flags set on cmd
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	overrides, err := collectOverrides(cmd)
	if err != nil {
		return nil, err
	}
	return config.LoadWithOverrides(path, overrides)
}

func collectOverrides(cmd *cobra.Command) (map[string]any, error) {
	overrides := make(map[string]any)
	for _, name := range overrideFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if name == "split-threshold" {
			n, err := cmd.Flags().GetInt(name)
			if err != nil {
				return nil, err
			}
			overrides[name] = n
			continue
		}
		overrides[name] = flag.Value.String()
	}
	return overrides, nil
}

func newLogger(w io.Writer, cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(cfg.Level())
	return logger
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.URL == "" {
		return fmt.Errorf("a database URL must be given with --url, DBBLUEPRINT_URL or the config file")
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	opts := &dbblueprint.Options{
		Tables:        cfg.Tables,
		ExcludeTables: cfg.ExcludeTables,
		SchemaName:    cfg.Schema,
		Connection:    cfg.Connection,
		Logger:        logger,
	}

	// Single-file output
	var writer = cmd.OutOrStdout()
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.WithError(err).Warn("failed to close output file")
			}
		}()
		writer = f
	}

	outOpts := &dbblueprint.OutputOptions{
		Writer:         writer,
		OutputDir:      cfg.OutputDir,
		Format:         cfg.Format,
		SplitThreshold: cfg.SplitThreshold,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := dbblueprint.LoadAndFormat(ctx, cfg.URL, opts, outOpts); err != nil {
		return err
	}
	return nil
}

func runDatabases(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.URL == "" {
		return fmt.Errorf("a database URL must be given with --url, DBBLUEPRINT_URL or the config file")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	names, err := dbblueprint.ListDatabases(ctx, cfg.URL)
	if err != nil {
		return err
	}

	for _, name := range names {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
