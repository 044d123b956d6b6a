package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/asinan007/tripping/internal/trip/store"
)

// SubscriberCounter reports how many live connections are open.
type SubscriberCounter interface {
	Total() int
}

// HousekeepingService periodically runs database maintenance and logs the
// number of live realtime connections.
type HousekeepingService struct {
	Store    store.Store
	Hub      SubscriberCounter
	Logger   *slog.Logger
	Interval time.Duration
	Timeout  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. A non-positive
// interval defaults to 1 hour.
func NewHousekeepingService(st store.Store, hub SubscriberCounter, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Hub:      hub,
		Logger:   logger,
		Interval: interval,
		Timeout:  time.Minute,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the worker. It does not block.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", slog.Duration("interval", s.Interval))
}

// Stop shuts the worker down and waits for an in-progress pass to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single maintenance pass.
func (s *HousekeepingService) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.Store.Optimize(ctx); err != nil {
		s.Logger.Error("database maintenance failed", slog.Any("error", err))
	}

	attrs := []any{slog.Duration("duration", time.Since(start))}
	if s.Hub != nil {
		attrs = append(attrs, slog.Int("live_subscribers", s.Hub.Total()))
	}
	s.Logger.Info("housekeeping pass completed", attrs...)
}
