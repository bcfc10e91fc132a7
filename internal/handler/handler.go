package handler

import (
	"context"

	"cryptopulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// MarketReader exposes the cached market-data operations to handlers.
type MarketReader interface {
	GetCoins(ctx context.Context) (domain.CoinListing, error)
	GetCoinInfo(ctx context.Context, coinID string) *domain.CoinInfo
	GetChart(ctx context.Context, coinID string, days int) domain.PriceSeries
}

// Analyzer runs one full sentiment analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error)
}

type Handler struct {
	tracer   trace.Tracer
	market   MarketReader
	analysis Analyzer
	apiKey   string
}

func New(tracer trace.Tracer, market MarketReader, analysis Analyzer, apiKey string) *Handler {
	return &Handler{
		tracer:   tracer,
		market:   market,
		analysis: analysis,
		apiKey:   apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(h.apiKey))
	api.GET("/coins", h.GetCoins)
	api.GET("/coins/:id", h.GetCoin)
	api.GET("/coins/:id/chart", h.GetChart)
	api.POST("/analysis", h.PostAnalysis)
}
