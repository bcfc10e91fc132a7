package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/sentiment"
)

type fakeMarket struct {
	coins  domain.CoinListing
	info   *domain.CoinInfo
	series domain.PriceSeries
	err    error
}

func (f *fakeMarket) GetCoins(_ context.Context) (domain.CoinListing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.coins, nil
}

func (f *fakeMarket) GetCoinInfo(_ context.Context, coinID string) *domain.CoinInfo {
	return f.info
}

func (f *fakeMarket) GetChart(_ context.Context, coinID string, days int) domain.PriceSeries {
	return f.series
}

type fakeDiscussion struct {
	comments []string
	err      error
	symbol   string
	limit    int
}

func (f *fakeDiscussion) FetchComments(_ context.Context, symbol string, limit int) ([]string, error) {
	f.symbol = symbol
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.comments, nil
}

func sevenDailyPoints() domain.PriceSeries {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series := make(domain.PriceSeries, 0, 7)
	for i := 0; i < 7; i++ {
		series = append(series, domain.PricePoint{
			Time:     base.AddDate(0, 0, i),
			PriceUSD: 100 + float64(i),
		})
	}
	return series
}

func newAnalysis(market MarketReader, discussion DiscussionReader) *AnalysisService {
	return NewAnalysisService(testTracer, market, discussion, sentiment.NewAggregator(testTracer, nil), 50)
}

func TestAnalyze_FullReport(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{
		info:   &domain.CoinInfo{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc"},
		series: sevenDailyPoints(),
	}
	discussion := &fakeDiscussion{comments: []string{"btc is a great buy", "love btc"}}
	svc := newAnalysis(market, discussion)

	report, err := svc.Analyze(context.Background(), domain.AnalysisRequest{CoinID: "bitcoin", Days: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Coin == nil || report.Coin.Name != "Bitcoin" {
		t.Fatalf("expected coin overview, got %+v", report.Coin)
	}
	if discussion.symbol != "btc" || discussion.limit != 50 {
		t.Fatalf("discussion fetched with %q/%d", discussion.symbol, discussion.limit)
	}
	if len(report.Sentiment.Records) != 2 || report.Sentiment.NoData {
		t.Fatalf("unexpected sentiment: %+v", report.Sentiment)
	}
	if report.Advisory == nil {
		t.Fatal("expected an advisory for scored comments")
	}
	if len(report.Series) != 7 {
		t.Fatalf("expected 7 daily points, got %d", len(report.Series))
	}
	if report.Alert != nil {
		t.Fatalf("target 0 must disable the alert, got %+v", report.Alert)
	}
}

func TestAnalyze_InvalidWindow(t *testing.T) {
	t.Parallel()

	svc := newAnalysis(&fakeMarket{}, &fakeDiscussion{})
	if _, err := svc.Analyze(context.Background(), domain.AnalysisRequest{CoinID: "bitcoin", Days: 13}); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestAnalyze_UnknownCoin(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{coins: domain.CoinListing{"bitcoin": "btc"}}
	svc := newAnalysis(market, &fakeDiscussion{})

	if _, err := svc.Analyze(context.Background(), domain.AnalysisRequest{CoinID: "fakecoin", Days: 7}); !errors.Is(err, ErrUnknownCoin) {
		t.Fatalf("expected ErrUnknownCoin, got %v", err)
	}
}

func TestAnalyze_SymbolFromCatalogWhenInfoAbsent(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{coins: domain.CoinListing{"bitcoin": "btc"}}
	discussion := &fakeDiscussion{comments: []string{"btc to the moon"}}
	svc := newAnalysis(market, discussion)

	report, err := svc.Analyze(context.Background(), domain.AnalysisRequest{CoinID: "bitcoin", Days: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Coin != nil {
		t.Fatalf("expected missing overview, got %+v", report.Coin)
	}
	if report.Symbol != "btc" {
		t.Fatalf("expected symbol from catalog, got %q", report.Symbol)
	}
}

func TestAnalyze_CatalogFailureIsFatal(t *testing.T) {
	t.Parallel()

	failure := errors.New("catalog down")
	market := &fakeMarket{err: failure}
	svc := newAnalysis(market, &fakeDiscussion{})

	if _, err := svc.Analyze(context.Background(), domain.AnalysisRequest{CoinID: "bitcoin", Days: 7}); !errors.Is(err, failure) {
		t.Fatalf("expected catalog failure surfaced, got %v", err)
	}
}

func TestAnalyze_DiscussionFailureDegrades(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{info: &domain.CoinInfo{ID: "bitcoin", Symbol: "btc"}}
	discussion := &fakeDiscussion{err: errors.New("reddit down")}
	svc := newAnalysis(market, discussion)

	report, err := svc.Analyze(context.Background(), domain.AnalysisRequest{CoinID: "bitcoin", Days: 7})
	if err != nil {
		t.Fatalf("discussion failure must not fail the analysis: %v", err)
	}
	if !report.Sentiment.NoData || report.Sentiment.Score != 0 {
		t.Fatalf("expected no-data sentiment, got %+v", report.Sentiment)
	}
	if report.Advisory != nil {
		t.Fatalf("no advisory without data, got %+v", report.Advisory)
	}
}

func TestAnalyze_AlertEvaluated(t *testing.T) {
	t.Parallel()

	market := &fakeMarket{
		info:   &domain.CoinInfo{ID: "bitcoin", Symbol: "btc"},
		series: sevenDailyPoints(), // latest price 106
	}
	svc := newAnalysis(market, &fakeDiscussion{})

	report, err := svc.Analyze(context.Background(), domain.AnalysisRequest{CoinID: "bitcoin", Days: 7, TargetPrice: 105})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Alert == nil || report.Alert.Kind != domain.AlertReached {
		t.Fatalf("expected reached alert, got %+v", report.Alert)
	}
}
