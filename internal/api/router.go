package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/presentation"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// Services bundles everything the router serves.
type Services struct {
	System         *service.SystemService
	Refresh        *service.RefreshService
	History        *service.HistoryService
	Holdings       *service.HoldingService
	Goals          *service.GoalService
	Market         *service.MarketService
	Recommendation *service.RecommendationService
	Presenter      *presentation.Presenter

	// Stream serves the dashboard WebSocket. Optional.
	Stream http.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireKey := custommiddleware.RequireAPIKey(cfg.Server.APIKey)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(svc.Refresh, svc.History, svc.Presenter)
			r.Get("/", dashboardHandler.View)
			r.Get("/snapshot", dashboardHandler.Snapshot)
			r.With(requireKey).Post("/refresh", dashboardHandler.Refresh)
			r.Get("/history", dashboardHandler.History)
			r.Route("/history/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", dashboardHandler.HistoryEntry)
			})
			r.Route("/charts", func(r chi.Router) {
				r.Get("/allocation.png", dashboardHandler.AllocationChart)
				r.Get("/pnl.png", dashboardHandler.PnLChart)
				r.Get("/history.png", dashboardHandler.HistoryChart)
			})
			if svc.Stream != nil {
				r.Handle("/stream", svc.Stream)
			}
		})

		r.Route("/holdings", func(r chi.Router) {
			holdingHandler := handlers.NewHoldingHandler(svc.Holdings)
			r.Use(requireKey)
			r.Post("/", holdingHandler.CreateHolding)
			r.Delete("/{id}", holdingHandler.DeleteHolding)
		})

		r.Route("/goals", func(r chi.Router) {
			goalHandler := handlers.NewGoalHandler(svc.Goals)
			r.Use(requireKey)
			r.Post("/", goalHandler.CreateGoal)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(svc.Market)
			r.Get("/news", marketHandler.News)
			r.Get("/symbol/{symbol}", marketHandler.Symbol)
		})

		recommendationHandler := handlers.NewRecommendationHandler(svc.Recommendation)
		r.Get("/recommendation", recommendationHandler.Recommend)
	})

	return r
}
