package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swagplan/internal/metrics"
	"swagplan/internal/models"
	"swagplan/internal/reminders"
	"swagplan/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var errNothingSent = errors.New("no reminders sent")

// ReminderWorker runs reminder sweeps against the stored document on a cron
// schedule or on demand
type ReminderWorker struct {
	store  *store.Guarded
	engine *reminders.Engine
	opts   reminders.Options
	lock   SweepLock
	log    *zap.Logger
	now    func() time.Time
	cron   *cron.Cron
}

func NewReminderWorker(st *store.Guarded, engine *reminders.Engine, opts reminders.Options, lock SweepLock, log *zap.Logger) *ReminderWorker {
	if lock == nil {
		lock = &LocalLock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReminderWorker{
		store:  st,
		engine: engine,
		opts:   opts,
		lock:   lock,
		log:    log.Named("reminders"),
		now:    time.Now,
	}
}

// RunOnce performs one sweep and persists the delivery records.
// The document is only written back when at least one reminder went out.
func (w *ReminderWorker) RunOnce(ctx context.Context) (reminders.Summary, error) {
	var summary reminders.Summary
	if err := w.opts.Validate(); err != nil {
		metrics.ReminderSweeps.WithLabelValues("error").Inc()
		return summary, err
	}

	release, err := w.lock.TryAcquire(ctx)
	if err != nil {
		if errors.Is(err, ErrSweepInProgress) {
			metrics.ReminderSweeps.WithLabelValues("skipped").Inc()
			w.log.Info("reminder sweep skipped, another sweep holds the lock")
		} else {
			metrics.ReminderSweeps.WithLabelValues("error").Inc()
		}
		return summary, err
	}
	defer release()

	timer := prometheus.NewTimer(metrics.SweepDuration)
	defer timer.ObserveDuration()

	now := w.now()
	w.log.Info("starting reminder sweep", zap.Time("now", now.UTC()))

	// delivered reminders must be recorded even if the caller goes away;
	// ctx still bounds the sends themselves
	err = w.store.Update(context.WithoutCancel(ctx), func(doc *models.Document) error {
		var sweepErr error
		summary, sweepErr = w.engine.Sweep(ctx, now, doc.Activities, doc.Users, w.opts)
		if sweepErr != nil {
			return sweepErr
		}
		if summary.Sent == 0 {
			return errNothingSent
		}
		return nil
	})
	if err != nil && !errors.Is(err, errNothingSent) {
		metrics.ReminderSweeps.WithLabelValues("error").Inc()
		w.log.Error("reminder sweep failed", zap.Error(err))
		return summary, fmt.Errorf("reminder sweep failed: %w", err)
	}

	metrics.ReminderSweeps.WithLabelValues("ok").Inc()
	w.log.Info("reminder sweep complete",
		zap.Int("processed", summary.Processed),
		zap.Int("sent", summary.Sent))
	return summary, nil
}

// Start schedules RunOnce using a six-field cron expression (seconds first)
func (w *ReminderWorker) Start(spec string) error {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() {
		if _, err := w.RunOnce(context.Background()); err != nil && !errors.Is(err, ErrSweepInProgress) {
			w.log.Error("scheduled reminder sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	w.cron = c
	c.Start()
	w.log.Info("reminder worker started", zap.String("schedule", spec))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to expire
func (w *ReminderWorker) Stop(ctx context.Context) {
	if w.cron == nil {
		return
	}
	select {
	case <-w.cron.Stop().Done():
	case <-ctx.Done():
		w.log.Warn("reminder worker stop timed out")
	}
}
