package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mythribanda/ClaimWatch/internal/infrastructure/postgres"
	pkgpostgres "github.com/mythribanda/ClaimWatch/pkg/postgres"
)

func newMigrateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the claims schema",
	}
	cmd.AddCommand(
		newMigrateStepCommand(opts, "up", "Apply all pending migrations", (*pkgpostgres.Migrator).Up),
		newMigrateStepCommand(opts, "down", "Roll back all migrations", (*pkgpostgres.Migrator).Down),
	)
	return cmd
}

func newMigrateStepCommand(opts *options, use, short string, step func(*pkgpostgres.Migrator) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			mg, err := pkgpostgres.NewMigrator(opts.cfg.DatabaseURL, postgres.Migrations, postgres.MigrationsDir)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := mg.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			if err := step(mg); err != nil {
				return err
			}

			version, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return err
		},
	}
}
