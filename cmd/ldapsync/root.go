package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"ldapsync/internal/app"
	"ldapsync/internal/config"
	"ldapsync/internal/logger"
	"ldapsync/internal/otel"
)

var (
	// Version is set at build time
	Version = "dev"

	// Global flags
	logLevel  string
	logPretty bool

	cfg             *config.AppConfig
	shutdownTracing = noopShutdown

	// openApp, appFs and initTracing are replaced in tests.
	openApp     = app.New
	appFs       = afero.NewOsFs()
	initTracing = otel.Init
)

var rootCmd = &cobra.Command{
	Use:   "ldapsync",
	Short: "Reconcile directory group membership into the record store",
	Long: `ldapsync resolves LDAP groups, optionally following nested groups, and
reconciles their members into the PostgreSQL record store.

Configuration is read from the environment; a .env file in the working
directory is loaded first when present.

Example:
  ldapsync sync admins helpdesk
  ldapsync sync --groups-file groups.txt --dry-run
  ldapsync resolve "cn=admins,ou=groups,dc=example,dc=com"`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-pretty") {
			cfg.Log.Pretty = logPretty
		}
		logger.Init(cfg.Log.Level, cfg.Log.Pretty, cmd.ErrOrStderr())

		shutdown, err := initTracing(cmd.Context(), "ldapsync-cli")
		if err != nil {
			return err
		}
		shutdownTracing = shutdown
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (or set LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "human readable logs (or set LOG_PRETTY)")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(scaffoldCmd)
	rootCmd.AddCommand(fiscalCmd)
}

func noopShutdown(context.Context) error { return nil }

// Execute runs the CLI
func Execute() error {
	return run(context.Background())
}

// run executes the command tree and flushes spans afterwards, including for
// commands that failed; cobra skips post-run hooks on error.
func run(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("command failed")
	}
	if serr := shutdownTracing(context.Background()); serr != nil {
		logger.Warn().Err(serr).Msg("tracer shutdown failed")
	}
	shutdownTracing = noopShutdown
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	a, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to release resources")
		}
	}()
	return fn(a)
}
