// Package metrics holds the prometheus collectors for sealrpc clients.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sealrpc"

// Metrics groups the client collectors.
type Metrics struct {
	Calls     *prometheus.CounterVec   // RPC calls by method and outcome
	Latency   *prometheus.HistogramVec // RPC round trip latency by method
	Bootstrap *prometheus.CounterVec   // trust bootstrap outcomes
}

// New builds the collectors and registers them with reg. A nil reg leaves
// them unregistered, which tests use to avoid global state.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_calls_total",
			Help:      "Encrypted RPC calls by method and outcome.",
		}, []string{"method", "outcome"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_call_duration_seconds",
			Help:      "Time from sealing a request to receiving response headers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		Bootstrap: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trust_bootstrap_total",
			Help:      "Trust bootstrap attempts by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Calls, m.Latency, m.Bootstrap} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// ObserveCall records one RPC call that started at start.
func (m *Metrics) ObserveCall(method string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Calls.WithLabelValues(method, outcome).Inc()
	m.Latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// ObserveBootstrap records a bootstrap outcome such as "pinned" or "rejected".
func (m *Metrics) ObserveBootstrap(outcome string) {
	if m == nil {
		return
	}
	m.Bootstrap.WithLabelValues(outcome).Inc()
}
