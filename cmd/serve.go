package cmd

import (
	"context"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/mediarr/api"
	"github.com/s0up4200/mediarr/sensor"
)

var (
	serveHost string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll every sensor and serve their state over HTTP",
	Long: `Start the scheduler and HTTP API. Sensors restore their last saved list
from the state database, then refresh on their polling interval.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "override server.host")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override server.port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, appOptions{withStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	for _, s := range a.scheduler.Sensors() {
		if err := s.Restore(ctx); err != nil {
			logger.Warn().Err(err).Str("sensor", s.Name()).Msg("Failed to restore sensor state")
		}
	}

	// Drop saved lists of sensors removed from the config
	if a.store != nil {
		removed, err := a.store.Prune(ctx, slices.Collect(maps.Keys(cfg.Sensors)))
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to prune sensor state")
		}
		for _, name := range removed {
			logger.Info().Str("sensor", name).Msg("Removed state of unconfigured sensor")
		}
	}

	host, port := cfg.Server.Host, cfg.Server.Port
	if serveHost != "" {
		host = serveHost
	}
	if servePort != 0 {
		port = servePort
	}

	srv := api.NewServer(a.scheduler, logger,
		api.WithImages(a.imageSources()),
		api.WithRefresh(func(s *sensor.Sensor) {
			// Reflect the new request state without waiting for the next tick
			go func() {
				_ = s.Update(ctx)
			}()
		}),
	)

	logger.Info().
		Str("version", version).
		Int("sensors", len(a.scheduler.Sensors())).
		Int("library_sources", a.library.Len()).
		Msg("Starting mediarr")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.scheduler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return srv.ListenAndServe(gctx, host, port)
	})

	return g.Wait()
}
