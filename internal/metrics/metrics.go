package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReminderSweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swagplan_reminder_sweeps_total",
			Help: "Total number of reminder sweeps by result",
		},
		[]string{"result"},
	)

	ActivitiesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swagplan_reminder_activities_processed_total",
			Help: "Total number of planned activities evaluated by reminder sweeps",
		},
	)

	RemindersDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swagplan_reminder_emails_total",
			Help: "Total number of reminder delivery attempts by lead time and result",
		},
		[]string{"lead_time", "result"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swagplan_reminder_sweep_duration_seconds",
			Help:    "Duration of reminder sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
