package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const (
	coingeckoBaseURL   = "https://api.coingecko.com/api/v3"
	descriptionMaxLen  = 500
	catalogMinInterval = time.Second
)

// CoinGeckoProvider fetches the coin catalog, coin metadata, and price
// history from the CoinGecko free API. Every operation retries with
// exponential backoff; the catalog fetch is additionally rate limited
// to one call per second.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *fetch.RateLimiter
	retry   fetch.Policy
}

func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: fetch.NewRateLimiter(1, catalogMinInterval),
		retry:   fetch.DefaultPolicy(),
	}
}

// FetchAllCoins retrieves the full catalog of coin ids and symbols.
func (p *CoinGeckoProvider) FetchAllCoins(ctx context.Context) (domain.CoinListing, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-all-coins")
	defer span.End()

	url := p.baseURL + "/coins/list"
	return fetch.Retry(ctx, p.retry, func(ctx context.Context) (domain.CoinListing, error) {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, err := p.doRequest(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch coin list: %w", err)
		}

		var raw []struct {
			ID     string `json:"id"`
			Symbol string `json:"symbol"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("parse coin list: %w", err)
		}

		listing := make(domain.CoinListing, len(raw))
		for _, coin := range raw {
			if coin.ID == "" {
				continue
			}
			listing[coin.ID] = coin.Symbol
		}
		return listing, nil
	})
}

// FetchCoinInfo retrieves metadata for one coin id.
func (p *CoinGeckoProvider) FetchCoinInfo(ctx context.Context, coinID string) (*domain.CoinInfo, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-coin-info")
	defer span.End()

	url := fmt.Sprintf("%s/coins/%s", p.baseURL, coinID)
	return fetch.Retry(ctx, p.retry, func(ctx context.Context) (*domain.CoinInfo, error) {
		body, err := p.doRequest(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch info for %s: %w", coinID, err)
		}

		var raw struct {
			ID          string `json:"id"`
			Symbol      string `json:"symbol"`
			Name        string `json:"name"`
			Description struct {
				En string `json:"en"`
			} `json:"description"`
			Links struct {
				Homepage []string `json:"homepage"`
			} `json:"links"`
			MarketData struct {
				CurrentPrice             map[string]float64 `json:"current_price"`
				MarketCap                map[string]float64 `json:"market_cap"`
				PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
			} `json:"market_data"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("parse info for %s: %w", coinID, err)
		}

		homepage := ""
		for _, link := range raw.Links.Homepage {
			if link != "" {
				homepage = link
				break
			}
		}

		return &domain.CoinInfo{
			ID:           raw.ID,
			Name:         raw.Name,
			Symbol:       raw.Symbol,
			PriceUSD:     raw.MarketData.CurrentPrice["usd"],
			Change24hPct: raw.MarketData.PriceChangePercentage24h,
			MarketCapUSD: raw.MarketData.MarketCap["usd"],
			Description:  sanitizeText(raw.Description.En, descriptionMaxLen),
			Homepage:     homepage,
		}, nil
	})
}

// FetchMarketChart retrieves daily USD prices for the trailing days-day
// window, ascending by time.
func (p *CoinGeckoProvider) FetchMarketChart(ctx context.Context, coinID string, days int) (domain.PriceSeries, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-market-chart")
	defer span.End()

	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		p.baseURL, coinID, days)
	return fetch.Retry(ctx, p.retry, func(ctx context.Context) (domain.PriceSeries, error) {
		body, err := p.doRequest(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch market chart for %s: %w", coinID, err)
		}

		var raw struct {
			Prices [][]float64 `json:"prices"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("parse market chart for %s: %w", coinID, err)
		}

		series := make(domain.PriceSeries, 0, len(raw.Prices))
		for _, pt := range raw.Prices {
			if len(pt) < 2 {
				continue
			}
			series = append(series, domain.PricePoint{
				Time:     time.UnixMilli(int64(pt[0])).UTC(),
				PriceUSD: pt[1],
			})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
		return series, nil
	})
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
