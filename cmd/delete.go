package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a record",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
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

			if !c.Bool("yes") {
				fmt.Println(formatCard(rec, "", false, e.loc))
				if !confirm("确定要删除这条记录吗？[y/N] ") {
					return nil
				}
			}

			if err := e.store.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", id)
			return nil
		},
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
