// Package cli implements the claimwatchd command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mythribanda/ClaimWatch/internal/infrastructure/config"
	"github.com/mythribanda/ClaimWatch/pkg/observability"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// options is the state shared by every subcommand once the root has loaded
// the configuration.
type options struct {
	configFile string
	v          *viper.Viper
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCommand builds the claimwatchd command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "claimwatchd",
		Short: "ClaimWatch insurance claim intake and fraud scoring service",
		Long: `claimwatchd accepts insurance claims, has them scored by the fraud
model, stores every claim with its verdict and serves the history.

Configuration is read from defaults, an optional YAML file (--config) and
environment variables such as PORT, DATABASE_URL and ML_API_URL, in
increasing priority. Command-line flags override all of them.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWith(opts.v, opts.configFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = observability.InitLogger(observability.LogConfig{
				Output: cmd.ErrOrStderr(),
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newExportCommand(opts),
		newEventsCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree until ctx is canceled.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No configuration needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "claimwatchd %s\n", Version)
			return err
		},
	}
}
