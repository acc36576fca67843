package timegraph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	marksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timegraph",
		Subsystem: "viewport",
		Name:      "marks_total",
		Help:      "Change marks recorded by the notifier, by kind.",
	}, []string{"kind"})

	flushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "timegraph",
		Subsystem: "viewport",
		Name:      "flushes_total",
		Help:      "Coalesced flushes delivered to listeners.",
	})

	staleFlushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "timegraph",
		Subsystem: "viewport",
		Name:      "stale_flushes_total",
		Help:      "Timer flushes discarded because they were superseded or the viewport was closed.",
	})

	broadcastsSuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "timegraph",
		Subsystem: "viewport",
		Name:      "broadcasts_suppressed_total",
		Help:      "Range broadcasts skipped because the window matched the last broadcast.",
	})

	selfSignalsIgnoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "timegraph",
		Subsystem: "viewport",
		Name:      "self_signals_ignored_total",
		Help:      "Inbound signals ignored because they originated from the receiving viewport.",
	})

	settleSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "timegraph",
		Subsystem: "viewport",
		Name:      "settle_seconds",
		Help:      "Time from the first mark of a burst to its flush.",
		Buckets:   []float64{.05, .1, .25, .4, .5, .75, 1, 2.5},
	})
)
