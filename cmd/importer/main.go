package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/pauljones0/offer-importer/internal/adapter"
	"github.com/pauljones0/offer-importer/internal/config"
	"github.com/pauljones0/offer-importer/internal/fetcher"
	"github.com/pauljones0/offer-importer/internal/mock"
	"github.com/pauljones0/offer-importer/internal/processor"
	"github.com/pauljones0/offer-importer/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		return 1
	}
	slog.SetDefault(newLogger(cfg))
	slog.Info("Starting offer import...", "providers", len(cfg.Providers), "driver", cfg.Database.Driver)

	// SIGINT/SIGTERM cancel the run; providers already in flight stop at their next record.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.UseMockProviders {
		srv, err := mock.Start(cfg.MockServerAddr())
		if err != nil {
			slog.Error("Critical error starting mock provider server", "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("Mock server shutdown error", "error", err)
			}
		}()
	}

	store, err := storage.New(ctx, cfg.Database)
	if err != nil {
		slog.Error("Critical error initializing offer store", "error", err)
		return 1
	}
	defer store.Close()

	registry := adapter.DefaultRegistry()
	known := registry.Names()
	for _, p := range cfg.Providers {
		if !slices.Contains(known, p.Name) {
			slog.Warn("No adapter registered for configured provider", "provider", p.Name, "known", known)
		}
	}

	p := processor.New(store, fetcher.New(cfg.FetchRateLimit), registry, cfg)

	runCtx, cancel := context.WithTimeout(ctx, cfg.ImportTimeout)
	defer cancel()

	report, err := p.ImportOffers(runCtx)
	for _, r := range report.Providers {
		attrs := []any{
			"provider", r.Provider,
			"received", r.Received,
			"persisted", r.Persisted,
			"invalid", r.Invalid,
			"failed", r.Failed,
		}
		if r.Err != nil {
			attrs = append(attrs, "error", r.Err)
		}
		slog.Info("Provider summary", attrs...)
	}
	if err != nil {
		slog.Error("Offer import did not complete", "error", err)
		return 1
	}

	slog.Info("Offer import complete.", "persisted", report.Persisted(), "duration", report.Duration)
	return 0
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
