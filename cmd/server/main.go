package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/api"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/config"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/database"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/scheduler"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	fxRepo := repository.NewFxRateRepository(db)
	securityRepo := repository.NewSecurityRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	yahooClient := yahoo.NewFinanceClient()

	// Create services
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(transactionRepo)
	fxService := service.NewFxService(fxRepo, transactionRepo, yahooClient, cfg.Portfolio.BaseCurrency)
	portfolioService := service.NewPortfolioService(transactionRepo, priceRepo, fxService)
	stockService := service.NewStockService(transactionRepo, priceRepo)
	priceService := service.NewPriceService(priceRepo, transactionRepo, securityRepo, yahooClient)
	navService := service.NewNavService(snapshotRepo, transactionRepo, priceRepo, fxService)
	settingsService, err := service.NewSettingsService(settingRepo, cfg.Security.FernetKey)
	if err != nil {
		log.Fatalf("Failed to initialize settings service: %v", err)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Portfolio:   portfolioService,
		Nav:         navService,
		Transaction: transactionService,
		Stock:       stockService,
		Price:       priceService,
		Fx:          fxService,
		Settings:    settingsService,
	}, cfg)

	// Start the background refresh scheduler
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(cfg.Scheduler.Schedule, priceService, fxService, navService)
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
