package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
)

// ActiveEventRefresher is the job run on each scheduler tick.
type ActiveEventRefresher interface {
	RefreshActiveEvents(ctx context.Context) (int, error)
}

// RefreshScheduler periodically refreshes and sweeps in-progress events.
type RefreshScheduler struct {
	refresher ActiveEventRefresher
	schedule  string
	timeout   time.Duration
	logger    *logrus.Logger
	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewRefreshScheduler(refresher ActiveEventRefresher, schedule string, timeout time.Duration, logger *logrus.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		schedule:  schedule,
		timeout:   timeout,
		logger:    logger,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *RefreshScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresh scheduler is already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return fmt.Errorf("failed to schedule event refresh %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true

	logger.ForComponent(s.logger, "scheduler").WithField("schedule", s.schedule).Info("Refresh scheduler started")
	return nil
}

// Stop waits for a running job to finish.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Refresh scheduler stopped")
}

func (s *RefreshScheduler) runOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	refreshed, err := s.refresher.RefreshActiveEvents(ctx)
	entry := s.logger.WithFields(logrus.Fields{
		"component": "scheduler",
		"refreshed": refreshed,
		"duration":  time.Since(started).String(),
	})
	if err != nil {
		entry.WithError(err).Warn("Scheduled refresh completed with errors")
		return
	}
	entry.Info("Scheduled refresh completed")
}
