package scheduler

import (
	"github.com/evermart/catalog-backend/internal/app/service"
	"github.com/evermart/catalog-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// BestsellerScheduler periodically recomputes the sales ranking so listing
// requests rarely pay for the aggregation query.
type BestsellerScheduler struct {
	cron              *cron.Cron
	bestsellerService service.BestsellerService
	schedule          string
}

func NewBestsellerScheduler(bestsellerService service.BestsellerService, schedule string) *BestsellerScheduler {
	return &BestsellerScheduler{
		cron:              cron.New(),
		bestsellerService: bestsellerService,
		schedule:          schedule,
	}
}

func (s *BestsellerScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled bestseller refresh", nil)

		if err := s.bestsellerService.Refresh(); err != nil {
			logger.Error("Failed to refresh bestseller ranking from scheduler", err)
			return
		}

		logger.Info("Bestseller ranking refreshed from scheduler", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for bestseller refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Bestseller scheduler started successfully", map[string]interface{}{
		"schedule": s.schedule,
	})

	return nil
}

func (s *BestsellerScheduler) Stop() {
	logger.Info("Stopping bestseller scheduler...", nil)
	s.cron.Stop()
	logger.Info("Bestseller scheduler stopped", nil)
}
