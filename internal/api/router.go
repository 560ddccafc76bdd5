package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/api/middleware"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/config"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System      *service.SystemService
	Portfolio   *service.PortfolioService
	Nav         *service.NavService
	Transaction *service.TransactionService
	Stock       *service.StockService
	Price       *service.PriceService
	Fx          *service.FxService
	Settings    *service.SettingsService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio, svc.Nav)
			r.Get("/positions", portfolioHandler.Positions)
			r.Get("/history", portfolioHandler.History)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/nav", portfolioHandler.Nav)
			r.Post("/nav/rebuild", portfolioHandler.NavRebuild)
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svc.Transaction, cfg.Portfolio.DataDir)
			r.Get("/", transactionHandler.List)
			r.Get("/stats", transactionHandler.Stats)
			r.Post("/import", transactionHandler.Import)
			r.Post("/reimport", transactionHandler.Reimport)
		})

		r.Route("/stocks/{symbol}", func(r chi.Router) {
			stockHandler := handlers.NewStockHandler(svc.Stock)
			r.Get("/metrics", stockHandler.Metrics)
			r.Get("/chart", stockHandler.Chart)
			r.Get("/dividends", stockHandler.Dividends)
			r.Get("/events", stockHandler.Events)
		})

		r.Route("/prices", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(svc.Price)
			r.Post("/update", priceHandler.UpdateAll)
			r.Get("/{symbol}", priceHandler.Get)
			r.Post("/{symbol}/update", priceHandler.UpdateSymbol)
			r.Post("/{symbol}/backfill", priceHandler.Backfill)
		})

		r.Route("/fx", func(r chi.Router) {
			fxHandler := handlers.NewFxHandler(svc.Fx)
			r.Get("/", fxHandler.List)
			r.Post("/update", fxHandler.Update)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(svc.Settings)
			r.Get("/{key}", settingsHandler.Get)
			r.Put("/{key}", settingsHandler.Set)
		})
	})

	return r
}
