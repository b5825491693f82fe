package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srinathmkce/imagetoken/pkg/cli"
	"github.com/srinathmkce/imagetoken/pkg/registry"
	"github.com/srinathmkce/imagetoken/pkg/server"
)

var serveFlags struct {
	listenAddress string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server with the specified configuration.

The server answers token and cost estimates over HTTP and never calls a
model provider. When registry.file is set, the model table is reloaded when
the file changes (registry.watch) or on a cron schedule
(registry.refresh_schedule); a table that fails to load is ignored.

SIGHUP re-reads the configuration file and loads the model table it names.
Other settings take effect on restart.

Examples:
  # Start with default config
  imagetoken serve

  # Start with custom config
  imagetoken serve --config /etc/imagetoken/config.yaml

  # Override listen address
  imagetoken serve --listen 0.0.0.0:8080

  # Validate config without starting server
  imagetoken serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg := *currentConfig()
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	a, err := newApp(&cfg)
	if err != nil {
		return err
	}
	// ctx is cancelled by the time the server stops; flush spans regardless.
	defer a.close(context.Background())

	out := cmd.OutOrStdout()
	if serveFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	fmt.Fprintf(out, "imagetoken v%s\n", Version)
	fmt.Fprintf(out, "✓ Model table %s loaded (%d models)\n", a.registry.Table().Version(), a.registry.Table().Len())

	if cfg.Registry.File != "" {
		stop, err := startReloaders(cmd, a)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer stop()
	}

	hup, stopHUP := cli.NotifyReload()
	defer stopHUP()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				_ = a.reload(cfgFile)
			}
		}
	}()

	srv := server.NewServer(&cfg.Server, a.estimator,
		server.WithCalculator(a.calculator),
		server.WithReader(a.reader),
		server.WithModality(cfg.Estimation.InputModality),
		server.WithLogger(a.logger),
		server.WithMetrics(a.metrics, cfg.Telemetry.Metrics.Path),
		server.WithTracer(a.tracer),
	)

	fmt.Fprintf(out, "✓ Listening on %s\n", cfg.Server.ListenAddress)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// startReloaders starts the file watcher and the cron refresher configured
// for the model table file and returns a function stopping both.
func startReloaders(cmd *cobra.Command, a *app) (func(), error) {
	ctx := commandContext(cmd)
	rc := a.cfg.Registry
	reloader := registry.NewReloader(a.registry, rc.File, a.logger, reloadObserver{a})

	var stops []func()
	stopAll := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	if rc.Watch {
		watcher, err := registry.NewWatcher(reloader, rc.DebounceInterval)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				a.logger.Error("model table watcher stopped", "error", err)
			}
		}()
		stops = append(stops, func() { _ = watcher.Stop() })
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Watching %s for changes\n", rc.File)
	}

	if rc.RefreshSchedule != "" {
		refresher := registry.NewRefresher(reloader, rc.RefreshSchedule)
		if err := refresher.Start(ctx); err != nil {
			stopAll()
			return nil, err
		}
		stops = append(stops, refresher.Stop)
		if next := refresher.NextRun(); next != nil {
			a.logger.Debug("model table refresh scheduled", "next_run", next)
		}
	}

	return stopAll, nil
}

// reloadObserver records reload outcomes and keeps the model count gauge
// current.
type reloadObserver struct {
	a *app
}

func (o reloadObserver) ObserveReload(trigger string, err error) {
	o.a.metrics.ObserveReload(trigger, err)
	if err == nil {
		o.a.metrics.UpdateModelCount(o.a.registry.Table().Len())
	}
}
