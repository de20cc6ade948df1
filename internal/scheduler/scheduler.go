// Package scheduler periodically sweeps appliances for due alerts and hands
// the ones not yet surfaced today to the notification workers.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"appliance-alerts-backend/config"
	"appliance-alerts-backend/internal/alert"
	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/ledger"
	"appliance-alerts-backend/internal/metrics"
	"appliance-alerts-backend/internal/model"
	"appliance-alerts-backend/internal/notification"
)

// Source is the subset of the store a sweep reads and normalizes.
type Source interface {
	ListAppliances(ctx context.Context) ([]*model.Appliance, error)
	ReleaseElapsedSnoozes(ctx context.Context, today calendar.Date) (int64, error)
}

// Dispatcher queues due alerts for surfacing.
type Dispatcher interface {
	Dispatch(ctx context.Context, job notification.Job) error
}

// Pruner is implemented by ledgers that need explicit cleanup.
type Pruner interface {
	Prune(ctx context.Context, before calendar.Date) (int64, error)
}

// Result summarizes one sweep.
type Result struct {
	Day        calendar.Date
	Released   int64
	Due        int
	Dispatched int
	Pruned     int64
}

// Service orchestrates the due-alert sweep.
type Service struct {
	cfg        config.SchedulerConfig
	retention  time.Duration
	source     Source
	ledger     ledger.Ledger
	dispatcher Dispatcher
	loc        *time.Location
	now        func() time.Time
}

// NewService creates and initializes a new scheduler service.
func NewService(cfg config.SchedulerConfig, retention time.Duration, src Source, l ledger.Ledger, d Dispatcher) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:        cfg,
		retention:  retention,
		source:     src,
		ledger:     l,
		dispatcher: d,
		loc:        loc,
		now:        time.Now,
	}, nil
}

// Today returns the current day in the configured timezone.
func (s *Service) Today() calendar.Date {
	return calendar.Of(s.now().In(s.loc))
}

// Run sweeps immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Scheduler is disabled. Not starting.")
		return
	}
	log.Println("Starting scheduler service...")

	s.sweepAndLog(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler service shutting down.")
			return
		case <-timer.C:
			s.sweepAndLog(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Service) sweepAndLog(ctx context.Context) {
	res, err := s.SweepOnce(ctx)
	if err != nil {
		log.Printf("Error during sweep: %v", err)
		return
	}
	log.Printf("Sweep for %s finished: %d due, %d dispatched, %d snoozes released, %d ledger rows pruned",
		res.Day, res.Due, res.Dispatched, res.Released, res.Pruned)
}

// SweepOnce performs a single sweep.
func (s *Service) SweepOnce(ctx context.Context) (Result, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	res := Result{Day: s.Today()}

	released, err := s.source.ReleaseElapsedSnoozes(ctx, res.Day)
	if err != nil {
		metrics.SweepsTotal.WithLabelValues(metrics.ResultError).Inc()
		return res, err
	}
	res.Released = released
	metrics.SnoozesReleased.Add(float64(released))

	apps, err := s.source.ListAppliances(ctx)
	if err != nil {
		metrics.SweepsTotal.WithLabelValues(metrics.ResultError).Inc()
		return res, err
	}

	due := alert.DueSet(apps, res.Day)
	res.Due = len(due)
	metrics.DueAlerts.Set(float64(len(due)))

	pending, err := ledger.Unshown(ctx, s.ledger, res.Day, due)
	if err != nil {
		metrics.SweepsTotal.WithLabelValues(metrics.ResultError).Inc()
		return res, err
	}

	for _, a := range pending {
		if err := s.dispatcher.Dispatch(ctx, notification.Job{Appliance: a, Day: res.Day}); err != nil {
			metrics.SweepsTotal.WithLabelValues(metrics.ResultError).Inc()
			return res, fmt.Errorf("dispatch appliance %d: %w", a.ID, err)
		}
		res.Dispatched++
	}

	if p, ok := s.ledger.(Pruner); ok {
		pruned, err := p.Prune(ctx, res.Day.AddDays(-s.retentionDays()))
		if err != nil {
			log.Printf("Warning: ledger prune failed: %v", err)
		}
		res.Pruned = pruned
	}

	metrics.SweepsTotal.WithLabelValues(metrics.ResultOK).Inc()
	return res, nil
}

// retentionDays rounds the retention window up to whole days, at least one.
func (s *Service) retentionDays() int {
	days := int((s.retention + 24*time.Hour - 1) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}
