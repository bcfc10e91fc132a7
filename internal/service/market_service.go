package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"cryptopulse/internal/cache"
	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Cache windows per operation. The catalog changes rarely, metadata
// drifts slowly, prices move fastest.
const (
	coinListTTL    = time.Hour
	coinInfoTTL    = 10 * time.Minute
	marketChartTTL = 5 * time.Minute
)

// MarketProvider is the raw market-data fetch surface. The provider
// already applies retry and rate limiting; the service layers the cache
// on top, so the full chain is cache over retry over rate limit.
type MarketProvider interface {
	FetchAllCoins(ctx context.Context) (domain.CoinListing, error)
	FetchCoinInfo(ctx context.Context, coinID string) (*domain.CoinInfo, error)
	FetchMarketChart(ctx context.Context, coinID string, days int) (domain.PriceSeries, error)
}

// MarketService memoizes market-data fetches and converts exhausted
// fetches into the degraded values downstream code expects.
type MarketService struct {
	tracer   trace.Tracer
	provider MarketProvider
	store    cache.Store
	flight   singleflight.Group
}

func NewMarketService(tracer trace.Tracer, provider MarketProvider, store cache.Store) *MarketService {
	if store == nil {
		store = cache.NewMemory()
	}
	return &MarketService{
		tracer:   tracer,
		provider: provider,
		store:    store,
	}
}

// GetCoins returns the coin catalog. Unlike the other operations the
// error is propagated: without a catalog the session cannot continue,
// and the caller decides how fatal that is.
func (s *MarketService) GetCoins(ctx context.Context) (domain.CoinListing, error) {
	_, span := s.tracer.Start(ctx, "market-service.get-coins")
	defer span.End()

	listing, err := cache.GetOrFetch(ctx, s.store, &s.flight, cache.Key("coins"), coinListTTL,
		s.provider.FetchAllCoins)
	if err != nil {
		return nil, fmt.Errorf("coin catalog unavailable: %w", err)
	}
	return listing, nil
}

// GetCoinInfo returns metadata for one coin, or nil when the fetch
// failed after retries. Callers skip display instead of erroring.
func (s *MarketService) GetCoinInfo(ctx context.Context, coinID string) *domain.CoinInfo {
	_, span := s.tracer.Start(ctx, "market-service.get-coin-info")
	defer span.End()

	info, err := cache.GetOrFetch(ctx, s.store, &s.flight, cache.Key("info", coinID), coinInfoTTL,
		func(ctx context.Context) (*domain.CoinInfo, error) {
			return s.provider.FetchCoinInfo(ctx, coinID)
		})
	if err != nil {
		log.Printf("coin info unavailable for %s: %v", coinID, err)
		return nil
	}
	return info
}

// GetChart returns the daily price series for the trailing days-day
// window. A failed fetch degrades to an empty series so chart and alert
// logic treat "no data" uniformly.
func (s *MarketService) GetChart(ctx context.Context, coinID string, days int) domain.PriceSeries {
	_, span := s.tracer.Start(ctx, "market-service.get-chart")
	defer span.End()

	series, err := cache.GetOrFetch(ctx, s.store, &s.flight, cache.Key("chart", coinID, strconv.Itoa(days)), marketChartTTL,
		func(ctx context.Context) (domain.PriceSeries, error) {
			return s.provider.FetchMarketChart(ctx, coinID, days)
		})
	if err != nil {
		log.Printf("market chart unavailable for %s (%dd): %v", coinID, days, err)
		return domain.PriceSeries{}
	}
	return series
}
