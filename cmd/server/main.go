package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptopulse/internal/bot"
	"cryptopulse/internal/cache"
	"cryptopulse/internal/config"
	"cryptopulse/internal/handler"
	"cryptopulse/internal/job"
	"cryptopulse/internal/provider"
	"cryptopulse/internal/sentiment"
	"cryptopulse/internal/service"
	"cryptopulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "cryptopulse/docs"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	initRedisFunc            = cache.InitRedis
	initTracerFunc           = tracing.InitTracer
	newCoinGeckoProviderFunc = func(tracer trace.Tracer) service.MarketProvider {
		return provider.NewCoinGeckoProvider(tracer)
	}
	newRedditProviderFunc = func(tracer trace.Tracer, subreddit, userAgent string) *provider.RedditProvider {
		return provider.NewRedditProvider(tracer, subreddit, userAgent)
	}
	newMarketServiceFunc   = service.NewMarketService
	newAnalysisServiceFunc = service.NewAnalysisService
	newCatalogRefresher    = job.NewCatalogRefresher
	startRefresherFunc     = func(r *job.CatalogRefresher, ctx context.Context) { go r.Start(ctx) }
	startupCheckFunc       = runStartupChecks
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	fatalFunc              = log.Fatalf
)

// runStartupChecks verifies both upstreams before the server accepts
// traffic. The coin catalog and the Reddit session are the two
// dependencies every analysis needs; with StrictStartup set their
// failure is terminal, otherwise the process starts degraded.
func runStartupChecks(ctx context.Context, market *service.MarketService, reddit *provider.RedditProvider, strict bool) {
	checkCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if _, err := market.GetCoins(checkCtx); err != nil {
		if strict {
			fatalFunc("startup: %v", err)
		}
		log.Printf("Warning: starting without a coin catalog: %v", err)
	}
	if err := reddit.Ping(checkCtx); err != nil {
		if strict {
			fatalFunc("startup: reddit unreachable: %v", err)
		}
		log.Printf("Warning: starting without reddit connectivity: %v", err)
	}
}

// @title           Cryptopulse API
// @version         1.0
// @description     Crypto sentiment dashboard backend with OpenTelemetry tracing.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Redis (optional; in-memory cache otherwise)
	var store cache.Store
	if cfg.RedisURL != "" {
		os.Setenv("REDIS_URL", cfg.RedisURL)
		initRedisFunc(ctx)
		store = cache.NewRedis(cache.Client)
	} else {
		store = cache.NewMemory()
	}

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create providers and services
	cgProvider := newCoinGeckoProviderFunc(tracer)
	redditProvider := newRedditProviderFunc(tracer, cfg.Subreddit, cfg.RedditUserAgent)
	marketService := newMarketServiceFunc(tracer, cgProvider, store)

	var llm sentiment.Scorer
	if scorer := sentiment.NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.OpenAIModel); scorer != nil {
		llm = scorer
	}
	aggregator := sentiment.NewAggregator(tracer, llm)
	analysisService := newAnalysisServiceFunc(tracer, marketService, redditProvider, aggregator, cfg.CommentLimit)

	// Verify upstream connectivity before serving
	startupCheckFunc(ctx, marketService, redditProvider, cfg.StrictStartup)

	// Keep the coin catalog warm (background goroutine, stopped by ctx cancel)
	refresher := newCatalogRefresher(tracer, marketService, cfg.CatalogRefreshSecs)
	startRefresherFunc(refresher, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(marketService, analysisService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, marketService, analysisService, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("cryptopulse"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
