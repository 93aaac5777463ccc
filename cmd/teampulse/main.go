// Command teampulse runs the engagement analytics service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teampulse/teampulse/pkg/analytics"
	"github.com/teampulse/teampulse/pkg/api"
	"github.com/teampulse/teampulse/pkg/config"
	"github.com/teampulse/teampulse/pkg/logging"
	"github.com/teampulse/teampulse/pkg/narrator"
	"github.com/teampulse/teampulse/pkg/storage"
	"github.com/teampulse/teampulse/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "teampulse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log := logging.Discard()
	if cfg.Logging.Dir != "" {
		log, err = logging.NewLogger(cfg.Logging.Dir)
		if err != nil {
			return err
		}
		defer log.Close()
		log.SetMinLevel(logging.Level(cfg.Logging.MinLevel))
	}

	if cfg.Tracing.Enabled {
		tp, err := telemetry.NewTracerProvider("teampulse")
		if err != nil {
			return err
		}
		defer tp.Shutdown(context.Background())
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info(logging.CategoryStorage, "store_open", "database ready", map[string]any{
		"path": cfg.Database.Path,
	})

	engine := analytics.New(store, analytics.WithLogger(log))

	n, err := narrator.New(narrator.Options{
		Enabled:  cfg.Narration.Enabled,
		Provider: cfg.Narration.Provider,
		Model:    cfg.Narration.Model,
		APIKey:   cfg.Narration.APIKey,
		BaseURL:  cfg.Narration.BaseURL,
		Timeout:  cfg.Narration.Timeout,
	}, log)
	if err != nil {
		return err
	}

	server := api.NewServer(cfg.Server.Address, engine, store, n, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info(logging.CategoryAPI, "shutdown", "signal received", map[string]any{
			"signal": sig.String(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
