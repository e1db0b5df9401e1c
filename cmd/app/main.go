package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"

	"github.com/mnordin/dividash/internal/config"
	"github.com/mnordin/dividash/internal/db"
	"github.com/mnordin/dividash/internal/forecast"
	"github.com/mnordin/dividash/internal/handlers"
	"github.com/mnordin/dividash/internal/ingest"
)

func main() {
	// Load .env file if it exists (local dev)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx := context.Background()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.URL); err != nil {
		log.Fatalf("Could not run migrations: %v", err)
	}
	log.Println("Migrations completed")

	// Connect to database
	pool, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	repo := db.NewRepository(pool)

	// Provider client
	var client *ingest.Client
	if cfg.Provider.APIKey != "" {
		if cfg.Provider.BaseURL != "" {
			client = ingest.NewClientWithBaseURL(cfg.Provider.APIKey, cfg.Provider.BaseURL)
		} else {
			client = ingest.NewClient(cfg.Provider.APIKey)
		}
		log.Println("Provider client initialized")
	} else {
		log.Println("Warning: provider api_key not set, ingestion and refresh disabled")
	}

	engine := forecast.NewDefaultEngine()

	// Setup Echo
	e := echo.New()
	e.Validator = handlers.NewValidator()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.Printf("%d %s", v.Status, v.URI)
			} else {
				log.Printf("%d %s - %v", v.Status, v.URI, v.Error)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Setup handlers
	h := handlers.New()
	forecastHandler := handlers.NewForecastHandler(repo, engine, handlers.ForecastConfig{
		DefaultMonths:   cfg.Forecast.DefaultMonths,
		MaxMonths:       cfg.Forecast.MaxMonths,
		DefaultLookback: cfg.Forecast.DefaultLookback,
		DefaultSWRPct:   cfg.FI.SafeWithdrawalRatePct,
	})

	// Routes
	e.GET("/health", h.Health)
	e.GET("/api/forecast/", forecastHandler.Forecast)
	e.GET("/api/forecast/fi-calculator", forecastHandler.FICalculator)

	if client != nil {
		screenerHandler := handlers.NewScreenerHandler(client, repo)
		e.GET("/api/screener/analysis/:symbol", screenerHandler.Analysis)

		ingestHandler := handlers.NewIngestHandler(client, repo)
		admin := e.Group("/admin")
		admin.GET("/ingest/status", ingestHandler.IngestStatus)
		admin.POST("/ingest/company", ingestHandler.IngestCompany)
		admin.POST("/ingest/dividends", ingestHandler.IngestDividends)
		admin.POST("/holdings", ingestHandler.UpsertHolding)
		log.Println("Ingestion endpoints registered")

		// Nightly refresh of dividends and snapshots for held symbols
		cr := cron.New()
		if _, err := cr.AddFunc(cfg.Schedule.RefreshCron, func() {
			refreshHoldings(ctx, client, repo)
		}); err != nil {
			log.Fatalf("Could not register refresh job: %v", err)
		}
		cr.Start()
		defer cr.Stop()
		log.Printf("Refresh scheduled: %s", cfg.Schedule.RefreshCron)
	}

	log.Printf("Starting server on :%s", cfg.Server.Port)
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// refreshHoldings re-ingests dividends and snapshots for every held symbol.
func refreshHoldings(ctx context.Context, client *ingest.Client, repo *db.Repository) {
	symbols, err := repo.GetHoldingSymbols(ctx)
	if err != nil {
		log.Printf("Refresh: could not list holdings: %v", err)
		return
	}

	log.Printf("Refreshing %d holdings...", len(symbols))
	for _, symbol := range symbols {
		dividends, err := client.FetchDividends(ctx, symbol)
		if err != nil {
			log.Printf("Refresh: dividends for %s failed: %v", symbol, err)
			continue
		}
		if _, err := repo.UpsertDividends(ctx, dividends); err != nil {
			log.Printf("Refresh: storing dividends for %s failed: %v", symbol, err)
			continue
		}

		overview, err := client.FetchOverview(ctx, symbol)
		if err != nil {
			log.Printf("Refresh: overview for %s failed: %v", symbol, err)
			continue
		}
		if err := repo.UpsertOverview(ctx, overview); err != nil {
			log.Printf("Refresh: storing overview for %s failed: %v", symbol, err)
		}
	}
	log.Println("Refresh complete")
}
