package job

import (
	"context"
	"log"
	"time"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// CatalogRefresher keeps the coin catalog cache warm so interactive
// requests rarely pay the rate-limited upstream call.
type CatalogRefresher struct {
	tracer          trace.Tracer
	catalog         CatalogReader
	refreshInterval time.Duration
}

type CatalogReader interface {
	GetCoins(ctx context.Context) (domain.CoinListing, error)
}

func NewCatalogRefresher(tracer trace.Tracer, catalog CatalogReader, refreshIntervalSecs int) *CatalogRefresher {
	return &CatalogRefresher{
		tracer:          tracer,
		catalog:         catalog,
		refreshInterval: time.Duration(refreshIntervalSecs) * time.Second,
	}
}

// Start launches the background refresh goroutine. Blocks until ctx is cancelled.
func (r *CatalogRefresher) Start(ctx context.Context) {
	log.Println("Catalog refresher starting...")

	go r.refreshLoop(ctx)

	<-ctx.Done()
	log.Println("Catalog refresher stopped")
}

func (r *CatalogRefresher) refreshLoop(ctx context.Context) {
	// Run immediately on start
	r.refreshOnce(ctx)

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshOnce(ctx)
		}
	}
}

func (r *CatalogRefresher) refreshOnce(ctx context.Context) {
	ctx, span := r.tracer.Start(ctx, "job.catalog-refresh")
	defer span.End()

	coins, err := r.catalog.GetCoins(ctx)
	if err != nil {
		log.Printf("catalog refresh error: %v", err)
		return
	}
	log.Printf("catalog refreshed, %d coins known", len(coins))
}
