// Package metrics exposes Prometheus collectors for a YMODEM transfer:
// blocks transferred, retries, CRC errors and transfer duration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the collectors one ymrecv/ymsend process needs.
type Registry struct {
	BlocksTotal      *prometheus.CounterVec
	RetransmitsTotal *prometheus.CounterVec
	CRCErrorsTotal   prometheus.Counter
	TimeoutsTotal    prometheus.Counter
	AbortsTotal      prometheus.Counter
	ActiveTransfers  prometheus.Gauge
	TransferDuration prometheus.Histogram
}

// New builds and registers a Registry against reg (pass nil to use the
// default Prometheus registry).
func New(reg prometheus.Registerer) *Registry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Registry{
		BlocksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ymodem",
			Name:      "blocks_total",
			Help:      "Data blocks transferred, by role (sender/receiver).",
		}, []string{"role"}),
		RetransmitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ymodem",
			Name:      "retransmits_total",
			Help:      "Packets or control bytes retransmitted, by role.",
		}, []string{"role"}),
		CRCErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ymodem",
			Name:      "crc_errors_total",
			Help:      "Packets rejected for a CRC or sequence mismatch.",
		}),
		TimeoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ymodem",
			Name:      "timeouts_total",
			Help:      "Transfers that ended in StatusTimeout.",
		}),
		AbortsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ymodem",
			Name:      "aborts_total",
			Help:      "Transfers that ended in StatusAbort or StatusError.",
		}),
		ActiveTransfers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ymodem",
			Name:      "active_transfers",
			Help:      "Transfers currently in progress.",
		}),
		TransferDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ymodem",
			Name:      "transfer_duration_seconds",
			Help:      "Wall-clock duration of a completed transfer.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	reg.MustRegister(
		r.BlocksTotal,
		r.RetransmitsTotal,
		r.CRCErrorsTotal,
		r.TimeoutsTotal,
		r.AbortsTotal,
		r.ActiveTransfers,
		r.TransferDuration,
	)
	return r
}

// Serve starts an HTTP server exposing /metrics on addr. It blocks
// until the listener fails and is meant to be run in its own
// goroutine by the caller.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
