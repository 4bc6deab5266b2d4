package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/database"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/finnhub"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/gemini"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/logger"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/presentation"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/scheduler"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/stream"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLog := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
		File:   cfg.Logging.File,
	})
	logger.SetGlobalLogger(appLog)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		appLog.Fatal().Err(err).Msg("Failed to migrate database")
	}
	appLog.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// External clients
	quotes := finnhub.NewMarketClient(cfg.Quote.Token,
		finnhub.WithBaseURL(cfg.Quote.BaseURL),
		finnhub.WithRateLimit(cfg.Quote.RateLimit),
		finnhub.WithTimeout(cfg.Quote.Timeout),
		finnhub.WithLogger(appLog),
	)
	if cfg.Quote.Token == "" {
		appLog.Warn().Msg("No quote provider token configured, live prices fall back to purchase prices")
	}

	backendClient := backend.NewRESTClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(appLog),
	)

	var generator service.ContentGenerator
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey,
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithLogger(appLog),
		)
		if err != nil {
			appLog.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		generator = geminiClient
	}

	// Create services
	resolver := service.NewPriceResolutionService(
		quotes,
		service.PricePolicy{
			Strategies:   cfg.Pricing.Policy,
			StaticPrices: cfg.Pricing.StaticPrices,
		},
		cfg.Quote.Timeout,
		cfg.Quote.Concurrency,
		appLog,
	)
	refreshService := service.NewRefreshService(
		backendClient,
		resolver,
		service.NewValuationEngine(cfg.Pricing.AllocationClasses),
		service.RefreshOptions{
			PortfolioID:  cfg.Backend.PortfolioID,
			Interval:     cfg.Refresh.Interval,
			CycleTimeout: cfg.Refresh.CycleTimeout,
		},
		appLog,
	)
	historyService := service.NewHistoryService(
		repository.NewSnapshotRepository(db),
		cfg.History.Retention,
		appLog,
	)
	presenter := presentation.NewPresenter(cfg.Pricing.Currency, cfg.Pricing.AllocationClasses)

	hub := stream.NewHub(func() stream.Message {
		return stream.Message{Type: "snapshot", Data: presenter.Render(refreshService.Snapshot())}
	}, cfg.CORS.AllowedOrigins, appLog)

	refreshService.OnPublish(historyService.Record)
	refreshService.OnPublish(func(snap model.Snapshot) {
		hub.Broadcast(stream.Message{Type: "snapshot", Data: presenter.Render(snap)})
	})

	services := api.Services{
		System: service.NewSystemService(db, refreshService, map[string]bool{
			"history":         true,
			"stream":          true,
			"recommendations": generator != nil,
		}),
		Refresh:        refreshService,
		History:        historyService,
		Holdings:       service.NewHoldingService(backendClient, refreshService, cfg.Backend.PortfolioID, appLog),
		Goals:          service.NewGoalService(backendClient),
		Market:         service.NewMarketService(quotes, appLog),
		Recommendation: service.NewRecommendationService(generator, refreshService),
		Presenter:      presenter,
		Stream:         hub,
	}

	// Background jobs
	sched := scheduler.New(appLog)
	if err := refreshService.Start(ctx, sched); err != nil {
		appLog.Fatal().Err(err).Msg("Failed to schedule dashboard refresh")
	}
	if err := sched.AddJob(cfg.History.PruneSchedule, scheduler.FuncJob{
		JobName: "history_prune",
		Fn: func() error {
			_, err := historyService.Prune()
			return err
		},
	}); err != nil {
		appLog.Fatal().Err(err).Msg("Failed to schedule history pruning")
	}
	sched.Start()

	// Create router
	router := api.NewRouter(services, cfg, appLog)

	// Create HTTP server
	// No WriteTimeout: it would cut /api/dashboard/stream connections.
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLog.Info().
			Str("addr", cfg.Server.Addr).
			Str("version", version.Version).
			Dur("refresh_interval", cfg.Refresh.Interval).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info().Msg("Shutting down server...")

	cancel()
	sched.Stop()
	hub.Close()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	appLog.Info().Msg("Server exited")
}
