package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/ssworld/pkg/config"
	"github.com/rubiojr/ssworld/pkg/log"
	"github.com/rubiojr/ssworld/pkg/storage"
)

// env is what most commands need: the loaded config, its time zone and an
// open store.
type env struct {
	cfg   *config.Config
	loc   *time.Location
	store storage.Store
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		log.ForService("cmd").Warnf("closing store: %v", err)
	}
}

// setup applies the global flags, loads the config and opens the store.
func setup(ctx context.Context, c *cli.Command) (*env, error) {
	if c.Bool("debug") {
		log.SetGlobalDebug(true)
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return &env{cfg: cfg, loc: loc, store: store}, nil
}

func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// display prints content, through a pager when stdout is a terminal.
func display(content string, noPager bool) error {
	if noPager || !isTerminal() {
		fmt.Print(content)
		return nil
	}

	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		for _, pager := range []string{"less", "more"} {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}
	if pagerCmd == "" {
		fmt.Print(content)
		return nil
	}

	var args []string
	if strings.Contains(pagerCmd, "less") {
		args = []string{"-R", "-S", "-F", "-X"}
	}

	cmd := exec.Command(pagerCmd, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
