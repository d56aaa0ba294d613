package workers

import (
	"context"
	"time"
)

type WorkersContainer struct {
	CacheFiller *CacheFiller
}

func InitWorkers(ctx context.Context, warmer CatalogWarmer, refillInterval time.Duration) *WorkersContainer {
	filler := NewCacheFiller(warmer, refillInterval)

	// Start workers
	go filler.Start(ctx)

	return &WorkersContainer{
		CacheFiller: filler,
	}
}
