package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/ssworld/pkg/db"
	"github.com/rubiojr/ssworld/pkg/storage"
)

// MigrateCommand reports the SQLite schema version. Opening the store
// already applies pending migrations.
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply and show database migrations",
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer e.Close()

			sq, ok := e.store.(*storage.SQLiteStore)
			if !ok {
				fmt.Printf("The %s backend has no schema migrations\n", e.cfg.Backend)
				return nil
			}

			status, err := db.NewMigrationManager(sq.DB()).Status(ctx)
			if err != nil {
				return err
			}
			for _, m := range status.Applied {
				fmt.Printf("  %03d %-30s applied %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			for _, m := range status.Pending {
				fmt.Printf("  %03d %-30s pending\n", m.Version, m.Name)
			}
			return nil
		},
	}
}

// OptimizeCommand runs backend maintenance.
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Optimize the database and checkpoint the WAL",
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer e.Close()

			opt, ok := e.store.(storage.Optimizer)
			if !ok {
				fmt.Printf("Nothing to optimize for the %s backend\n", e.cfg.Backend)
				return nil
			}
			if err := opt.Optimize(ctx); err != nil {
				return err
			}
			fmt.Println("Database optimized")
			return nil
		},
	}
}
