package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "adbridge"
)

var (
	pollDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

	// Connect flow metrics
	ConnectAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connect_attempts_total",
		Help:      "Count of connect flows by provider and outcome.",
	}, []string{"provider", "outcome"})

	CredentialPrecheckRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_precheck_rejections_total",
		Help:      "Credential submissions rejected before any network call.",
	}, []string{"provider", "reason"})

	// Poller metrics
	PollTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_ticks_total",
		Help:      "Count of sync-progress poll cycles.",
	}, []string{"status"})

	PollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "poll_duration_seconds",
		Help:      "Time taken for one sync-progress poll cycle.",
		Buckets:   pollDurationBuckets,
	})

	SyncTerminalTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_terminal_transitions_total",
		Help:      "Sync runs observed reaching a terminal status.",
	}, []string{"provider", "status"})

	SyncLastCompletedTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sync_last_completed_timestamp_seconds",
		Help:      "Unix timestamp of the last completed sync per integration.",
	}, []string{"provider", "integration"})

	// Data point metrics
	DataPointsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "data_points_total",
		Help:      "Total synced data points as last reported, by source tier.",
	}, []string{"source"})
)
