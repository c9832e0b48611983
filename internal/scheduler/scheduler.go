// Package scheduler runs the recurring background jobs: the daily report
// snapshot and the low stock summary.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/config"
	"github.com/vortexcart/api/internal/service/reporting"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. An unknown timezone falls
// back to UTC rather than failing startup.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.UTC
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.generateDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	// Low stock checks run hourly regardless of the report schedule.
	if _, err := s.cron.AddFunc("0 * * * *", s.checkLowStock); err != nil {
		s.logger.Error("failed to schedule low stock check", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) generateDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.reportingSvc.GenerateDaily(ctx, time.Now()); err != nil {
		s.logger.Error("failed to generate daily report", zap.Error(err))
		return
	}
	s.logger.Info("daily report generated successfully")
}

func (s *Scheduler) checkLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	items, err := s.reportingSvc.LowStockSummary(ctx)
	if err != nil {
		s.logger.Error("low stock check failed", zap.Error(err))
		return
	}
	if len(items) > 0 {
		s.logger.Info("low stock check completed", zap.Int("alerts", len(items)))
	}
}
