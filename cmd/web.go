package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/ssworld/pkg/api"
	"github.com/rubiojr/ssworld/pkg/config"
	"github.com/rubiojr/ssworld/pkg/log"
	"github.com/rubiojr/ssworld/pkg/realtime"
	"github.com/rubiojr/ssworld/pkg/scheduler"
	"github.com/rubiojr/ssworld/pkg/storage"
)

func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start the web interface and JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to",
				Value: "localhost",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: "8080",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := setup(ctx, c)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(e.store, realtime.NewHub(0), serverOptions(e.cfg))
			go watchConfig(ctx, c.String("config"), srv)

			sched, err := maintenance(e)
			if err != nil {
				return err
			}
			if err := sched.Start(ctx); err != nil {
				return err
			}
			defer sched.Stop()

			return serveHTTP(ctx, net.JoinHostPort(c.String("host"), c.String("port")), srv.Handler())
		},
	}
}

// maintenance schedules backend upkeep for the lifetime of the server.
func maintenance(e *env) (*scheduler.Scheduler, error) {
	sched := scheduler.New()
	if opt, ok := e.store.(storage.Optimizer); ok {
		if err := sched.Add("optimize", e.cfg.OptimizeInterval.Duration, opt.Optimize); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

func serverOptions(cfg *config.Config) api.Options {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	return api.Options{
		PageSize: cfg.PageSize,
		Debounce: cfg.SearchDebounce.Duration,
		Location: loc,
	}
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	l := log.ForService("web")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Infof("listening on http://%s", addr)
		l.Infof("    GET  /                  - Timeline page")
		l.Infof("    GET  /api/records       - List and search records")
		l.Infof("    POST /api/records       - Create a record")
		l.Infof("    GET  /api/live          - Live timeline websocket")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
		l.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// watchConfig reloads display settings when the config file changes.
// Storage settings need a restart.
func watchConfig(ctx context.Context, configPath string, srv *api.Server) {
	l := log.ForService("web")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		l.Warnf("failed to create config file watcher: %v", err)
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			l.Warnf("failed to close config file watcher: %v", err)
		}
	}()

	if err := watcher.Add(configPath); err != nil {
		l.Warnf("failed to watch config file %s: %v", configPath, err)
		return
	}
	l.Debugf("watching config file for changes: %s", configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
				continue
			}

			// Editors that save atomically replace the file, which drops
			// the watch.
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					l.Warnf("config file was removed, keeping current settings")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					l.Warnf("failed to re-add config file to watcher: %v", err)
				}
			} else {
				time.Sleep(100 * time.Millisecond)
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				l.Errorf("failed to reload configuration: %v", err)
				continue
			}
			srv.SetOptions(serverOptions(cfg))
			l.Infof("configuration reloaded (page_size=%d, search_debounce=%s)", cfg.PageSize, cfg.SearchDebounce.Duration)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.Warnf("config file watcher error: %v", err)
		}
	}
}
