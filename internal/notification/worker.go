package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"appliance-alerts-backend/internal/alert"
	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/ledger"
	"appliance-alerts-backend/internal/metrics"
	"appliance-alerts-backend/internal/model"
)

// Sink receives notices for due alerts.
type Sink interface {
	Raise(ctx context.Context, n *model.Notice) error
}

// NoticeCreator is the subset of the store an Inbox needs.
type NoticeCreator interface {
	CreateNotice(ctx context.Context, n *model.Notice) error
}

// Inbox is a Sink that stores notices for the in-app inbox.
type Inbox struct {
	store NoticeCreator
}

// NewInbox creates an Inbox over the given store.
func NewInbox(s NoticeCreator) *Inbox {
	return &Inbox{store: s}
}

// Raise stores the notice.
func (i *Inbox) Raise(ctx context.Context, n *model.Notice) error {
	return i.store.CreateNotice(ctx, n)
}

// Job asks the pool to surface one appliance's due alert for a day.
type Job struct {
	Appliance *model.Appliance
	Day       calendar.Date
}

// WorkerPool manages a pool of workers for raising notices.
type WorkerPool struct {
	size   int
	jobs   chan Job
	sink   Sink
	ledger ledger.Ledger
	now    func() time.Time

	// inflight holds the ledger keys of jobs currently being processed.
	inflight sync.Map
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, sink Sink, l ledger.Ledger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:   size,
		jobs:   make(chan Job, size), // Buffered channel
		sink:   sink,
		ledger: l,
		now:    time.Now,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.Process(ctx, job)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool. It blocks while the queue is full
// and gives up when ctx is done.
func (wp *WorkerPool) Dispatch(ctx context.Context, job Job) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// Process surfaces one job synchronously. Several sweeps may queue the same
// pair, so a pair already being processed by another worker is skipped and
// the ledger is checked again. The pair is marked only after the notice was
// raised.
func (wp *WorkerPool) Process(ctx context.Context, job Job) {
	a := job.Appliance
	key := ledger.Key(job.Day, a.ID)
	if _, busy := wp.inflight.LoadOrStore(key, struct{}{}); busy {
		metrics.NoticesRaised.WithLabelValues(metrics.ResultSkipped).Inc()
		return
	}
	defer wp.inflight.Delete(key)

	shown, err := wp.ledger.HasBeenShown(ctx, job.Day, a.ID)
	if err != nil {
		log.Printf("Error checking ledger for appliance %d: %v", a.ID, err)
		metrics.NoticesRaised.WithLabelValues(metrics.ResultError).Inc()
		return
	}
	if shown {
		metrics.NoticesRaised.WithLabelValues(metrics.ResultSkipped).Inc()
		return
	}

	n := BuildNotice(a, job.Day, wp.now())
	if err := wp.sink.Raise(ctx, n); err != nil {
		log.Printf("Error raising notice for appliance %d: %v", a.ID, err)
		metrics.NoticesRaised.WithLabelValues(metrics.ResultError).Inc()
		return
	}

	if err := wp.ledger.MarkShown(ctx, job.Day, a.ID); err != nil {
		log.Printf("Error marking appliance %d as shown: %v", a.ID, err)
	}
	metrics.NoticesRaised.WithLabelValues(metrics.ResultOK).Inc()
}

// BuildNotice renders the notice for a due appliance.
func BuildNotice(a *model.Appliance, day calendar.Date, now time.Time) *model.Notice {
	title := "Maintenance due"
	if a.AlertDate.Before(day) {
		title = "Maintenance overdue"
	}
	label := a.Name
	if a.Brand != "" || a.Model != "" {
		label = fmt.Sprintf("%s (%s %s)", a.Name, a.Brand, a.Model)
	}
	return &model.Notice{
		ApplianceID: a.ID,
		Day:         day,
		AlertDate:   *a.AlertDate,
		Title:       title,
		Message:     fmt.Sprintf("%s: %s", label, alert.HumanCountdown(*a.AlertDate, day)),
		Severity:    string(alert.SeverityFor(*a.AlertDate, day)),
		CreatedAt:   now.UTC(),
	}
}
