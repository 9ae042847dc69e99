package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/ssworld/cmd"
	"github.com/rubiojr/ssworld/pkg/config"
)

func main() {
	app := &cli.Command{
		Name:  "ssworld",
		Usage: "A photo and mood journal with a searchable timeline",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: defaultConfigPathOrExit(),
			},
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.AddCommand(),
			cmd.EditCommand(),
			cmd.DeleteCommand(),
			cmd.ListCommand(),
			cmd.SearchCommand(),
			cmd.StatsCommand(),
			cmd.WebCommand(),
			cmd.ExportCommand(),
			cmd.ImportCommand(),
			cmd.MigrateCommand(),
			cmd.OptimizeCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get default config path: %v\n", err)
		os.Exit(1)
	}
	return path
}
