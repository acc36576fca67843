package syncbus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signalsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timegraph",
		Subsystem: "sync",
		Name:      "signals_published_total",
		Help:      "Signals published on a bus, by kind.",
	}, []string{"kind"})

	signalsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "timegraph",
		Subsystem: "sync",
		Name:      "signals_dropped_total",
		Help:      "Signals dropped because a subscriber was not keeping up.",
	})

	subscribersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "timegraph",
		Subsystem: "sync",
		Name:      "subscribers_active",
		Help:      "Number of bus subscribers.",
	})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "timegraph",
		Subsystem: "sync",
		Name:      "ws_connections_active",
		Help:      "Number of relay websocket connections.",
	})

	malformedSignalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "timegraph",
		Subsystem: "sync",
		Name:      "malformed_signals_total",
		Help:      "Relay messages that could not be decoded as signals.",
	})
)
