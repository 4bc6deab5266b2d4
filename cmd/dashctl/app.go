package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/finnhub"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/presentation"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// app holds the pipeline pieces shared by subcommands.
type app struct {
	cfg       *config.Config
	quotes    *finnhub.MarketClient
	refresher *service.RefreshService
	presenter *presentation.Presenter
	log       zerolog.Logger
}

func newApp(verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()

	quotes := finnhub.NewMarketClient(cfg.Quote.Token,
		finnhub.WithBaseURL(cfg.Quote.BaseURL),
		finnhub.WithRateLimit(cfg.Quote.RateLimit),
		finnhub.WithTimeout(cfg.Quote.Timeout),
		finnhub.WithLogger(log),
	)
	backendClient := backend.NewRESTClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(log),
	)

	resolver := service.NewPriceResolutionService(
		quotes,
		service.PricePolicy{Strategies: cfg.Pricing.Policy, StaticPrices: cfg.Pricing.StaticPrices},
		cfg.Quote.Timeout,
		cfg.Quote.Concurrency,
		log,
	)
	refresher := service.NewRefreshService(
		backendClient,
		resolver,
		service.NewValuationEngine(cfg.Pricing.AllocationClasses),
		service.RefreshOptions{
			PortfolioID:  cfg.Backend.PortfolioID,
			Interval:     cfg.Refresh.Interval,
			CycleTimeout: cfg.Refresh.CycleTimeout,
		},
		log,
	)

	return &app{
		cfg:       cfg,
		quotes:    quotes,
		refresher: refresher,
		presenter: presentation.NewPresenter(cfg.Pricing.Currency, cfg.Pricing.AllocationClasses),
		log:       log,
	}, nil
}

// printMarkdown renders md with glamour; plain prints it unstyled.
func printMarkdown(md string, plain bool) {
	if plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
