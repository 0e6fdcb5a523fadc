// Package reminders decides which activity reminders are due, renders them and
// records successful deliveries so each (activity, lead time) pair is mailed at
// most once.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swagplan/internal/metrics"
	"swagplan/internal/models"

	"go.uber.org/zap"
)

// ErrDebugAddressMissing is returned when debug redirection is on without a target address
var ErrDebugAddressMissing = errors.New("reminder debug mode is enabled but no debug address is configured")

// Notifier delivers one rendered email to a set of recipients.
// A non-nil error fails the whole attempt.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, text, html string) error
}

// Options configures a single sweep
type Options struct {
	DebugMode    bool
	DebugAddress string
}

// Validate checks the options before any delivery is attempted
func (o Options) Validate() error {
	if o.DebugMode && o.DebugAddress == "" {
		return ErrDebugAddressMissing
	}
	return nil
}

// Summary is the aggregate outcome of a sweep
type Summary struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
}

// Engine runs reminder sweeps against an in-memory activity list
type Engine struct {
	notifier Notifier
	log      *zap.Logger
}

// NewEngine creates an engine that delivers through the given notifier
func NewEngine(notifier Notifier, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		notifier: notifier,
		log:      log,
	}
}

// Sweep evaluates every planned activity against the lead-time table and sends
// the reminders that are due today. Successful deliveries are recorded in the
// activities slice in place; the caller persists it.
func (e *Engine) Sweep(ctx context.Context, now time.Time, activities []models.Activity, users []models.User, opts Options) (Summary, error) {
	var summary Summary
	if err := opts.Validate(); err != nil {
		return summary, err
	}

	now = now.UTC()
	index := indexUsers(users)

	if opts.DebugMode {
		e.log.Info("reminder debug mode enabled", zap.String("debug_address", opts.DebugAddress))
	}

	for i := range activities {
		activity := &activities[i]
		if activity.Status != models.StatusPlanned {
			continue
		}
		summary.Processed++
		metrics.ActivitiesProcessed.Inc()

		day, err := activity.Day()
		if err != nil {
			e.log.Warn("skipping activity with malformed date",
				zap.String("activity_id", activity.ID),
				zap.String("date", activity.Date),
				zap.Error(err))
			continue
		}

		daysUntil := DaysUntil(day, now)
		e.log.Debug("evaluating activity",
			zap.String("activity_id", activity.ID),
			zap.String("title", activity.Title),
			zap.Int("days_until", daysUntil))

		for _, lt := range models.LeadTimes {
			if daysUntil != lt.Days {
				continue
			}
			if e.remind(ctx, now, activity, lt, index, opts) {
				summary.Sent++
			}
		}
	}

	return summary, nil
}

// remind handles one due obligation and reports whether a reminder went out
func (e *Engine) remind(ctx context.Context, now time.Time, activity *models.Activity, lt models.LeadTime, index userIndex, opts Options) bool {
	log := e.log.With(
		zap.String("activity_id", activity.ID),
		zap.String("title", activity.Title),
		zap.String("lead_time", string(lt.Key)))

	if record := activity.Notifications[lt.Key]; record != nil && record.Sent {
		log.Info("reminder already sent")
		return false
	}

	recipients := index.recipientsFor(activity)
	if len(recipients) == 0 {
		log.Warn("no email addresses found for activity")
		return false
	}

	content := Render(activity, lt)
	to := recipients
	if opts.DebugMode {
		content, to = Redirect(content, recipients, opts.DebugAddress)
		log.Info("redirecting reminder to debug address",
			zap.Strings("original_recipients", recipients),
			zap.String("debug_address", opts.DebugAddress))
	}

	if err := e.deliver(ctx, to, content); err != nil {
		log.Error("failed to send reminder", zap.Strings("recipients", to), zap.Error(err))
		metrics.RemindersDelivered.WithLabelValues(string(lt.Key), "failed").Inc()
		return false
	}

	if activity.Notifications == nil {
		activity.Notifications = make(map[models.LeadTimeKey]*models.NotificationRecord)
	}
	activity.Notifications[lt.Key] = models.NewSentRecord(now, recipients)
	metrics.RemindersDelivered.WithLabelValues(string(lt.Key), "sent").Inc()
	log.Info("reminder sent", zap.Strings("recipients", to))
	return true
}

// deliver calls the notifier, turning a panic into an ordinary failure
func (e *Engine) deliver(ctx context.Context, to []string, content Content) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panicked: %v", r)
		}
	}()
	return e.notifier.Send(ctx, to, content.Subject, content.Text, content.HTML)
}
