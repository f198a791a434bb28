// Package cli implements the schemactl command-line interface.
//
// Commands operate on the same stores as the server, configured from the
// environment (see app.FromEnv). Without DATABASE_URL every command works on
// empty in-memory stores, which is only useful for types and validate.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"schemagraph/internal/app"
)

// Builder wires the application components for one command run.
type Builder func(ctx context.Context, logger *log.Logger) (*app.App, error)

// FromEnv builds the application from environment configuration.
func FromEnv(ctx context.Context, logger *log.Logger) (*app.App, error) {
	cfg, err := app.FromEnv()
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg, logger)
}

// appRunner adapts a command body that needs the wired components into a
// cobra RunE.
type appRunner func(fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error

type loggerKey struct{}

func loggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// Execute runs schemactl.
func Execute() error {
	_ = godotenv.Load()
	return NewRootCmd(FromEnv).ExecuteContext(context.Background())
}

// NewRootCmd creates the command tree. build is called by every command that
// needs storage.
func NewRootCmd(build Builder) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "schemactl",
		Short:        "schemactl manages the structured data of the site",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := app.NewLogger(os.Getenv("LOG_LEVEL"), verbose)
			logger.SetOutput(cmd.ErrOrStderr())
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	var withApp appRunner = func(fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd.Context(), loggerFrom(cmd.Context()))
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			defer a.Close()
			return fn(cmd, a, args)
		}
	}

	root.AddCommand(newTypesCmd(withApp))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newExportCmd(withApp))
	root.AddCommand(newImportCmd(withApp))
	root.AddCommand(newAddCmd(withApp))
	root.AddCommand(newSettingsCmd(withApp))
	root.AddCommand(newTasksCmd(withApp))
	return root
}
