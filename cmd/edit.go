package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

// EditCommand replaces the content of a record. Unset flags keep the
// current value.
func EditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a record",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "photo", Usage: "New JPG or PNG file, or an http(s) URL"},
			&cli.StringFlag{Name: "category", Usage: "New category"},
			&cli.StringFlag{Name: "mood", Usage: "New mood text"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return fmt.Errorf("record id required")
			}

			e, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer e.Close()

			rec, err := e.store.Get(ctx, id)
			if err != nil {
				return err
			}

			photo, category, mood := rec.Photo, rec.Category, rec.Mood
			if c.IsSet("photo") {
				if photo, err = loadPhoto(c.String("photo")); err != nil {
					return err
				}
			}
			if c.IsSet("category") {
				if category, err = parseCategory(c.String("category")); err != nil {
					return err
				}
			}
			if c.IsSet("mood") {
				mood = strings.TrimSpace(c.String("mood"))
			}

			edited, err := rec.Edit(photo, category, mood, time.Now())
			if err != nil {
				return err
			}
			if err := e.store.Put(ctx, edited); err != nil {
				return err
			}

			fmt.Println(formatCard(edited, "", false, e.loc))
			return nil
		},
	}
}
