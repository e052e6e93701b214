package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pauljones0/offer-importer/internal/config"
	"github.com/pauljones0/offer-importer/internal/validator"
)

type Processor interface {
	ImportOffers(ctx context.Context) (*Report, error)
}

type OfferProcessor struct {
	store     OfferStore
	fetcher   PayloadFetcher
	registry  AdapterResolver
	validator *validator.Validator
	providers []config.ProviderConfig
	timeout   time.Duration
}

func New(store OfferStore, f PayloadFetcher, r AdapterResolver, cfg *config.Config) *OfferProcessor {
	providers := make([]config.ProviderConfig, len(cfg.Providers))
	copy(providers, cfg.Providers)

	return &OfferProcessor{
		store:     store,
		fetcher:   f,
		registry:  r,
		validator: validator.New(),
		providers: providers,
		timeout:   cfg.ProviderTimeout,
	}
}

// ImportOffers runs one full pass over every configured provider. Providers are
// fetched and processed concurrently and fail independently; a failing provider
// or record is logged and recorded in the report, never returned as an error.
// The error is non-nil only when ctx ends before the run completes.
func (p *OfferProcessor) ImportOffers(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{Providers: make([]ProviderResult, len(p.providers))}

	var g errgroup.Group
	for i, provider := range p.providers {
		result := &report.Providers[i]
		result.Provider = provider.Name
		g.Go(func() error {
			p.importProvider(ctx, provider, result)
			return nil
		})
	}
	_ = g.Wait()
	report.Duration = time.Since(start)

	for _, r := range report.Providers {
		if r.Err != nil {
			slog.Error("Provider import failed", "provider", r.Provider, "error", r.Err)
		}
	}
	slog.Info("Offer import finished",
		"providers", len(report.Providers),
		"failedProviders", report.FailedProviders(),
		"persisted", report.Persisted(),
		"duration", report.Duration)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("offer import interrupted: %w", err)
	}
	return report, nil
}

func (p *OfferProcessor) importProvider(ctx context.Context, provider config.ProviderConfig, result *ProviderResult) {
	slog.Info("Fetching provider", "provider", provider.Name, "url", provider.URL)
	payload, err := p.fetcher.Fetch(ctx, provider.URL, p.timeout)
	if err != nil {
		result.Err = fmt.Errorf("fetch failed: %w", err)
		return
	}

	a, err := p.registry.Resolve(provider.Name)
	if err != nil {
		result.Err = err
		return
	}

	offers, err := a.Transform(payload)
	if err != nil {
		result.Err = fmt.Errorf("transform failed: %w", err)
		return
	}
	result.Received = len(offers)
	slog.Info("Transformed provider payload", "provider", provider.Name, "count", len(offers))

	for _, offer := range offers {
		if err := ctx.Err(); err != nil {
			result.Err = fmt.Errorf("stopped after %d of %d offers: %w", result.Persisted+result.Invalid+result.Failed, len(offers), err)
			return
		}

		if errs := p.validator.Validate(offer); len(errs) > 0 {
			result.Invalid++
			slog.Warn("Skipping invalid offer",
				"provider", provider.Name,
				"externalOfferId", offer.ExternalOfferID,
				"errors", validator.Join(errs))
			continue
		}

		if err := p.store.Upsert(ctx, offer); err != nil {
			result.Failed++
			slog.Error("Failed to persist offer",
				"provider", provider.Name,
				"externalOfferId", offer.ExternalOfferID,
				"error", err)
			continue
		}
		result.Persisted++
	}

	slog.Info("Finished provider",
		"provider", provider.Name,
		"received", result.Received,
		"persisted", result.Persisted,
		"invalid", result.Invalid,
		"failed", result.Failed)
}
