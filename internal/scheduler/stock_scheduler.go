package scheduler

import (
	"context"
	"time"

	"github.com/jasher/unlimited-options-backend/internal/app/service"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StockScheduler periodically overwrites local stock with Shopify's
// inventory counts. Webhook decrements are relative and can drift under
// missed or duplicate deliveries; this job is the absolute correction.
type StockScheduler struct {
	cron        *cron.Cron
	syncService service.SyncService
	schedule    string
}

func NewStockScheduler(syncService service.SyncService, schedule string) *StockScheduler {
	return &StockScheduler{
		cron:        cron.New(),
		syncService: syncService,
		schedule:    schedule,
	}
}

func (s *StockScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled stock reconciliation", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := s.syncService.ReconcileStock(ctx); err != nil {
			logger.Error("Scheduled stock reconciliation failed", err)
			return
		}
		logger.Info("Scheduled stock reconciliation completed", nil)
	})
	if err != nil {
		logger.Error("Failed to add cron job for stock reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Stock scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *StockScheduler) Stop() {
	logger.Info("Stopping stock scheduler...", nil)
	s.cron.Stop()
	logger.Info("Stock scheduler stopped", nil)
}
