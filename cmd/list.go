package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/ssworld/pkg/query"
	"github.com/rubiojr/ssworld/pkg/search"
	"github.com/rubiojr/ssworld/pkg/timeline"
)

var pageFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  "page",
		Usage: "Number of pages to show",
		Value: 1,
	},
	&cli.IntFlag{
		Name:  "limit",
		Usage: "Records per page (defaults to page_size from the config)",
	},
	&cli.BoolFlag{
		Name:  "no-pager",
		Usage: "Disable pager and output directly to terminal",
	},
}

// ListCommand prints the timeline, newest month first.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Show the record timeline",
		Flags: pageFlags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return showTimeline(ctx, c, "")
		},
	}
}

// SearchCommand classifies the query like the web UI does: years, months,
// dates and weekdays filter by creation date, anything else matches mood
// text and categories.
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search records (e.g. 猫, 2024, 3月, 3.14, 2024年3月, 周四)",
		ArgsUsage: "<query>",
		Flags:     pageFlags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return showTimeline(ctx, c, strings.Join(c.Args().Slice(), " "))
		},
	}
}

func showTimeline(ctx context.Context, c *cli.Command, rawQuery string) error {
	e, err := setup(ctx, c)
	if err != nil {
		return err
	}
	defer e.Close()

	records, err := e.store.List(ctx)
	if err != nil {
		return err
	}

	limit := e.cfg.PageSize
	if c.Int("limit") > 0 {
		limit = c.Int("limit")
	}

	engine := search.NewEngine(e.loc)
	filtered, count := engine.Search(records, rawQuery, time.Now().In(e.loc).Year())
	tl := timeline.GroupIn(filtered, limit, c.Int("page"), e.loc)

	return display(formatTimeline(tl, rawQuery, query.Classify(rawQuery), count, e.loc), c.Bool("no-pager"))
}
