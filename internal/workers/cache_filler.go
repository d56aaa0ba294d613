package workers

import (
	"context"
	"time"

	"discount-system/vitrina/internal/logging"
)

// CatalogWarmer is what the cache filler refreshes
type CatalogWarmer interface {
	WarmCatalogs(ctx context.Context) error
}

// CacheFiller keeps the dashboard catalogs cached so page loads after a sync do not hit the store
type CacheFiller struct {
	warmer   CatalogWarmer
	interval time.Duration
}

func NewCacheFiller(warmer CatalogWarmer, interval time.Duration) *CacheFiller {
	return &CacheFiller{warmer: warmer, interval: interval}
}

// Start refills once, then every interval until ctx is cancelled
func (f *CacheFiller) Start(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.refill(ctx)

	for {
		select {
		case <-ticker.C:
			f.refill(ctx)
		case <-ctx.Done():
			logging.Info("Cache filler shutting down")
			return
		}
	}
}

func (f *CacheFiller) refill(ctx context.Context) {
	if err := f.warmer.WarmCatalogs(ctx); err != nil {
		logging.Warn("Catalog cache refill failed", "error", err)
	}
}
