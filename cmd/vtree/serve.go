package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/live"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		configPath string
		demo       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live demo application",
		Long: `Start the live server with a demo application.

The page is rendered on the server; the browser then connects over
WebSocket and receives every later change as binary patch frames.
Metrics are served at /metrics.

Settings come from vtree.json or vtree.yaml in the working directory
or its parents; without a config file the defaults are used.

Demos:
  counter   a button and a counter
  todo      a keyed list with add, remove and reverse

Examples:
  vtree serve
  vtree serve --addr=:9000 --demo=todo
  vtree serve --config=./deploy/vtree.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Live.Address = addr
			}
			app, ok := demos[demo]
			if !ok {
				return errors.Newf(errors.CategoryCLI, "unknown demo %q", demo).
					WithSuggestion("Use one of: counter, todo")
			}
			return runServe(cmd.Context(), cfg, app)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: search vtree.json/vtree.yaml)")
	cmd.Flags().StringVarP(&demo, "demo", "d", "counter", "Demo application to serve")

	return cmd
}

// loadConfig loads path, or the nearest config file, or the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.LoadFromWorkingDir()
	if errors.Code(err) == errors.CodeConfigNotFound {
		return config.New(), nil
	}
	return cfg, err
}

func runServe(ctx context.Context, cfg *config.Config, app live.App) error {
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := live.New(app, cfg.LiveConfig(logger))

	printBanner()
	success("Serving on http://%s", displayAddr(cfg.Live.Address))
	info("Metrics at %s", live.MetricsPath)
	info("Press Ctrl+C to stop")
	fmt.Println()

	return srv.ListenAndServe(ctx)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
