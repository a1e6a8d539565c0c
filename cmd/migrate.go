package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/migrator"
	"github.com/m04kA/SMC-AppointmentService/migrations"
)

func newMigrateCommand() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции схемы базы данных",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Close()

			ctx := context.Background()
			db, err := openDatabase(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := migrator.New(db, migrations.FS, log)
			if err != nil {
				return err
			}

			if down {
				err = m.Down(ctx)
			} else {
				err = m.Up(ctx)
			}
			if err != nil {
				return err
			}

			version, err := m.Version(ctx)
			if err != nil {
				return err
			}
			log.Info("Database schema version: %d", version)
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "откатить последнюю миграцию")
	return cmd
}
