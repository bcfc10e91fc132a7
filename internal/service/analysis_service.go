package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"cryptopulse/internal/alert"
	"cryptopulse/internal/domain"
	"cryptopulse/internal/provider"
	"cryptopulse/internal/sentiment"

	"go.opentelemetry.io/otel/trace"
)

var (
	ErrUnknownCoin   = errors.New("unknown coin id")
	ErrInvalidWindow = errors.New("unsupported time window")
)

// MarketReader is the slice of MarketService the analysis flow needs.
type MarketReader interface {
	GetCoins(ctx context.Context) (domain.CoinListing, error)
	GetCoinInfo(ctx context.Context, coinID string) *domain.CoinInfo
	GetChart(ctx context.Context, coinID string, days int) domain.PriceSeries
}

// DiscussionReader fetches recent comments mentioning a symbol.
type DiscussionReader interface {
	FetchComments(ctx context.Context, symbol string, limit int) ([]string, error)
}

// AnalysisService runs one full analysis: coin overview, discussion
// sentiment, advisory, price series, and the optional price alert.
type AnalysisService struct {
	tracer       trace.Tracer
	market       MarketReader
	discussion   DiscussionReader
	aggregator   *sentiment.Aggregator
	commentLimit int
}

func NewAnalysisService(
	tracer trace.Tracer,
	market MarketReader,
	discussion DiscussionReader,
	aggregator *sentiment.Aggregator,
	commentLimit int,
) *AnalysisService {
	if commentLimit <= 0 {
		commentLimit = provider.DefaultCommentLimit
	}
	return &AnalysisService{
		tracer:       tracer,
		market:       market,
		discussion:   discussion,
		aggregator:   aggregator,
		commentLimit: commentLimit,
	}
}

// Analyze produces the full report for one user selection. Degraded
// fetches shrink the report (missing overview, empty comment table,
// empty series) instead of failing it; only an unusable request or an
// unavailable coin catalog is an error.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.analyze")
	defer span.End()

	if req.CoinID == "" {
		return nil, fmt.Errorf("coin id is required")
	}
	if !domain.ValidWindow(req.Days) {
		return nil, ErrInvalidWindow
	}

	info := s.market.GetCoinInfo(ctx, req.CoinID)

	symbol := ""
	if info != nil {
		symbol = info.Symbol
	}
	if symbol == "" {
		coins, err := s.market.GetCoins(ctx)
		if err != nil {
			return nil, err
		}
		sym, ok := coins[req.CoinID]
		if !ok {
			return nil, ErrUnknownCoin
		}
		symbol = sym
	}

	// Discussion and price history come from independent services;
	// fetch both at once. Each keeps its own retry sequencing inside.
	var (
		wg       sync.WaitGroup
		series   domain.PriceSeries
		comments []string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		series = s.market.GetChart(ctx, req.CoinID, req.Days)
	}()
	go func() {
		defer wg.Done()
		fetched, err := s.discussion.FetchComments(ctx, symbol, s.commentLimit)
		if err != nil {
			log.Printf("discussion fetch failed for %s: %v", symbol, err)
			return
		}
		comments = fetched
	}()
	wg.Wait()

	summary := s.aggregator.Analyze(ctx, comments)

	report := &domain.AnalysisReport{
		Coin:      info,
		Symbol:    symbol,
		Sentiment: summary,
		Series:    series,
	}
	if !summary.NoData {
		advisory := sentiment.Advise(summary.Score)
		report.Advisory = &advisory
	}
	report.Alert = alert.Evaluate(series, symbol, req.TargetPrice)

	return report, nil
}
