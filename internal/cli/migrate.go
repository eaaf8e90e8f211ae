// internal/cli/migrate.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"roommate-finder/internal/common/config"
	"roommate-finder/internal/common/database"
)

func newMigrateCommand(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dryRun {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), database.Schema())
				return err
			}

			cfg, err := loadConfig(opts.v.GetString("config"))
			if err != nil {
				return err
			}

			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			if err := database.Migrate(cmd.Context(), pg.DB); err != nil {
				return err
			}

			opts.logger.Info("schema applied", map[string]interface{}{
				"host":     cfg.Database.Postgres.Host,
				"database": cfg.Database.Postgres.Database,
			})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the schema instead of applying it")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
