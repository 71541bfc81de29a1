// Package cli provides the command-line interface for gqlint.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/softmesh/graphql/internal/cli/commands"
	"github.com/softmesh/graphql/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gqlint",
		Short: "gqlint - GraphQL document linter",
		Long: `gqlint parses GraphQL schema and executable documents and reports
parse errors and schema validation findings.

Documents are parsed with a demand-driven lexer and a recursive-descent
parser, then checked against the registered validation rules.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel(cfg.LogLevel),
			})))

			if file := config.FileUsed(); file != "" {
				slog.Debug("using config file", "path", file)
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags, bridged into the configuration loader.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gqlint.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Int("max-depth", 0, "Maximum nesting depth accepted by the parser")
	rootCmd.PersistentFlags().String("addr", "", "Listen address for the diagnostics server")
	rootCmd.PersistentFlags().String("otlp-endpoint", "", "OTLP gRPC endpoint for traces (empty disables tracing)")
	rootCmd.PersistentFlags().String("service-name", "", "Service name reported to the tracing backend")

	// Register completion for log-level flag
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewServeCommand())

	return rootCmd
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// logLevel maps a configured level name onto a slog.Level. Unknown
// names fall back to info.
func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
