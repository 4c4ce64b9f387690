// Package metrics exposes Prometheus instrumentation for the RPC gateway,
// the poll loop and the notification ingester.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitcointui",
		Subsystem: "rpc",
		Name:      "calls_total",
		Help:      "Count of JSON-RPC calls issued to the node.",
	}, []string{"method", "status"})

	rpcCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitcointui",
		Subsystem: "rpc",
		Name:      "call_duration_seconds",
		Help:      "Duration of JSON-RPC calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})

	pollCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitcointui",
		Subsystem: "poller",
		Name:      "cycles_total",
		Help:      "Count of completed poll cycles.",
	}, []string{"slow_refresh"})

	recentBlocksFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bitcointui",
		Subsystem: "poller",
		Name:      "recent_blocks_fetched_total",
		Help:      "Count of block-stats fetches during history reconciliation.",
	})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitcointui",
		Subsystem: "zmq",
		Name:      "notifications_total",
		Help:      "Count of forwarded ZMQ notifications by topic.",
	}, []string{"topic"})
)

// ObserveRPC records one JSON-RPC call outcome and duration.
func ObserveRPC(method string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	rpcCallsTotal.WithLabelValues(method, status).Inc()
	rpcCallDuration.WithLabelValues(method, status).Observe(time.Since(started).Seconds())
}

// ObservePollCycle records a completed cycle and whether it refreshed the
// slow tier.
func ObservePollCycle(slowRefresh bool) {
	v := "false"
	if slowRefresh {
		v = "true"
	}
	pollCyclesTotal.WithLabelValues(v).Inc()
}

// ObserveBlockFetch records one block-stats fetch during history sync.
func ObserveBlockFetch() {
	recentBlocksFetched.Inc()
}

// ObserveNotification records one forwarded notification.
func ObserveNotification(topic string) {
	notificationsTotal.WithLabelValues(topic).Inc()
}
