package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/ssworld/pkg/core"
)

// AddCommand stores a new record.
func AddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a photo and mood record",
		ArgsUsage: "<mood text>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "photo",
				Usage:    "JPG or PNG file, or an http(s) URL",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "时空 (spacetime) or 宇宙 (cosmos)",
				Value: string(core.CategorySpacetime),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer e.Close()

			photo, err := loadPhoto(c.String("photo"))
			if err != nil {
				return err
			}
			category, err := parseCategory(c.String("category"))
			if err != nil {
				return err
			}

			rec, err := core.NewRecord(photo, category, strings.Join(c.Args().Slice(), " "), time.Now())
			if err != nil {
				return err
			}
			if err := e.store.Put(ctx, rec); err != nil {
				return err
			}

			fmt.Println(formatCard(rec, "", false, e.loc))
			return nil
		},
	}
}

// loadPhoto turns a --photo value into the stored photo reference.
func loadPhoto(ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref, nil
	case strings.HasPrefix(ref, "data:"):
		return ref, core.CheckPhoto(ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}
	return core.PhotoFromBytes(data)
}

var categoryAliases = map[string]core.Category{
	"spacetime": core.CategorySpacetime,
	"cosmos":    core.CategoryCosmos,
}

func parseCategory(s string) (core.Category, error) {
	s = strings.TrimSpace(s)
	if c, ok := categoryAliases[strings.ToLower(s)]; ok {
		return c, nil
	}
	c := core.Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownCategory, s)
	}
	return c, nil
}
