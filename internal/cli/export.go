package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mythribanda/ClaimWatch/internal/infrastructure/export"
	"github.com/mythribanda/ClaimWatch/internal/infrastructure/postgres"
	pkgpostgres "github.com/mythribanda/ClaimWatch/pkg/postgres"
)

func newExportCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the claim history to a Parquet file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()

			pool, err := pkgpostgres.NewPool(ctx, pkgpostgres.Config{URL: opts.cfg.DatabaseURL}, opts.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = cerr
				}
				if err != nil {
					_ = os.Remove(out)
				}
			}()

			n, err := export.NewExporter(postgres.NewClaimRepository(pool), opts.logger).Export(ctx, f)
			if err != nil {
				return err
			}

			opts.logger.Info("export complete", slog.String("path", out), slog.Int("claims", n))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d claims to %s\n", n, out)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output Parquet file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
