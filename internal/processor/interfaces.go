package processor

import (
	"context"
	"time"

	"github.com/pauljones0/offer-importer/internal/adapter"
	"github.com/pauljones0/offer-importer/internal/models"
)

// OfferStore abstracts the storage layer for offer data.
type OfferStore interface {
	Upsert(ctx context.Context, offer models.Offer) error
}

// PayloadFetcher retrieves a provider's raw catalog.
type PayloadFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

// AdapterResolver maps a provider name to its adapter.
type AdapterResolver interface {
	Resolve(name string) (adapter.Adapter, error)
}
