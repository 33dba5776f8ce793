// Package metrics is a thin abstraction over Prometheus so the client can be
// used with or without metrics collection, adapted from the teacher's
// pkg/metrics.go (the metricsSink / noopMetrics / promMetrics split). Where
// the teacher tracks per-shard cache hits and arena bytes, this package
// tracks the profiler client's own health: per-channel loss counts, whether
// the client is currently attached, and log-ring occupancy (SPEC_FULL.md
// section A, "Internal metrics").
//
// Nothing here runs on a Zone/Frame/Plot hot path directly: Sink methods are
// called once per Drain cycle (i.e. from whatever drives the collector side
// in-process, or from internal/attach's own state transitions), never from
// pkg/lens's producer-side Begin/End/Submit calls.
//
// © 2026 temporal-lens authors. MIT License.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Sink is the internal interface abstracting the concrete backend (Prometheus
// vs noop). Not exposed outside the module's wiring code.
//
// SetAttached is the only method this module's own code calls
// (internal/attach, on every attach-state transition): this client never
// drains its own Payload channels, so it has no producer-side call site for
// AddLost or SetLogOccupancy — those two describe the collector half of the
// protocol (spec §4.3's loss count, §4.1's log ring), which lives in a
// separate process. They're exported here so an embedder that also runs a
// collector's drain loop in the same binary can report through the same
// registry instead of standing up a second one.
type Sink interface {
	AddLost(channel string, n int)
	SetAttached(attached bool)
	SetLogOccupancy(bytes int)
}

// noopSink is used when no *prometheus.Registry is supplied: all calls are
// free of side effects and of cost.
type noopSink struct{}

func (noopSink) AddLost(string, int) {}
func (noopSink) SetAttached(bool)    {}
func (noopSink) SetLogOccupancy(int) {}

// promSink implements Sink against a real Prometheus registry.
type promSink struct {
	lost         *prometheus.CounterVec
	attached     prometheus.Gauge
	logOccupancy prometheus.Gauge
}

func newPromSink(reg *prometheus.Registry) *promSink {
	p := &promSink{
		lost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "temporal_lens",
			Name:      "events_lost_total",
			Help:      "Number of events dropped because a Payload channel was full at Drain time.",
		}, []string{"channel"}),
		attached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "temporal_lens",
			Name:      "attached",
			Help:      "1 if the client is currently attached to a collector's shared region, 0 otherwise.",
		}),
		logOccupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "temporal_lens",
			Name:      "log_ring_bytes",
			Help:      "Bytes currently occupied in the variable-length log ring.",
		}),
	}

	reg.MustRegister(p.lost, p.attached, p.logOccupancy)
	return p
}

func (p *promSink) AddLost(channel string, n int) {
	p.lost.WithLabelValues(channel).Add(float64(n))
}

func (p *promSink) SetAttached(attached bool) {
	if attached {
		p.attached.Set(1)
	} else {
		p.attached.Set(0)
	}
}

func (p *promSink) SetLogOccupancy(bytes int) {
	p.logOccupancy.Set(float64(bytes))
}

// New picks the sink implementation: noop if reg is nil, Prometheus-backed
// otherwise. Mirrors the teacher's newMetricsSink factory.
func New(reg *prometheus.Registry) Sink {
	if reg == nil {
		return noopSink{}
	}
	return newPromSink(reg)
}
