package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/ssworld/pkg/storage"
)

type statsView struct {
	storage.Stats
	Backend string
	Path    string
}

func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show record counts per category",
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer e.Close()

			records, err := e.store.List(ctx)
			if err != nil {
				return err
			}
			fmt.Print(formatStats(statsView{
				Stats:   storage.Summarize(records),
				Backend: e.cfg.Backend,
				Path:    e.cfg.DBPath(),
			}))
			return nil
		},
	}
}
