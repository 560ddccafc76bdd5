// Package scheduler runs the periodic market data refresh: current prices
// for every tracked symbol, exchange rates for every traded currency, then a
// NAV snapshot rebuild so the stored history stays current.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
)

// jobTimeout bounds one full refresh run. A wedged provider call must not
// hold the cron slot past the next trigger.
const jobTimeout = 15 * time.Minute

// Scheduler wraps a cron runner around the refresh services.
type Scheduler struct {
	cron       *cron.Cron
	priceSvc   *service.PriceService
	fxSvc      *service.FxService
	navSvc     *service.NavService
	expression string
}

// New creates a Scheduler firing on the given cron expression
// (standard 5-field format).
func New(expression string, priceSvc *service.PriceService, fxSvc *service.FxService, navSvc *service.NavService) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		priceSvc:   priceSvc,
		fxSvc:      fxSvc,
		navSvc:     navSvc,
		expression: expression,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.expression, s.runRefresh); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("scheduler started with schedule %q", s.expression)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("scheduler stopped")
}

// runRefresh is one scheduled pass. Each stage logs and continues on
// failure; a dead market data provider should not prevent the FX update or
// the snapshot rebuild from running on whatever data is stored.
func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	log.Println("scheduled refresh starting")

	prices, err := s.priceSvc.UpdateAll(ctx)
	if err != nil {
		log.Printf("scheduled price update failed: %v", err)
	} else {
		log.Printf("scheduled price update: %d updated, %d errors", prices.TotalUpdated, prices.TotalErrors)
	}

	rates, err := s.fxSvc.UpdateRates(ctx)
	if err != nil {
		log.Printf("scheduled fx update failed: %v", err)
	} else {
		log.Printf("scheduled fx update: %d rates stored", rates)
	}

	days, err := s.navSvc.Rebuild(ctx)
	if err != nil {
		log.Printf("scheduled nav rebuild failed: %v", err)
	} else {
		log.Printf("scheduled nav rebuild: %d snapshot days", days)
	}
}
