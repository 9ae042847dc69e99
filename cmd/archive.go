package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/ssworld/pkg/storage"
)

// ExportCommand writes every record to a JSON archive.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all records as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (stdout when empty)",
			},
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "Compress the archive with zstd",
			},
		},
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

			var w io.Writer = os.Stdout
			if path := c.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer f.Close()
				w = f
			}

			if err := storage.Export(w, records, c.Bool("compress")); err != nil {
				return err
			}
			if c.String("output") != "" {
				fmt.Fprintf(os.Stderr, "Exported %d records to %s\n", len(records), c.String("output"))
			}
			return nil
		},
	}
}

// ImportCommand loads an archive written by export. Records with an
// existing ID are replaced.
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import records from a JSON archive (plain or zstd)",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("archive path required")
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := storage.Import(f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			e, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := storage.Restore(ctx, e.store, records)
			if err != nil {
				return fmt.Errorf("restoring records: %w", err)
			}
			fmt.Printf("Imported %d records\n", n)
			return nil
		},
	}
}
