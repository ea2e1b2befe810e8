// Package metrics exports evaluation metrics to Prometheus through the
// observer seam.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/petrijr/canopy/pkg/api"
)

// PrometheusObserver records tick and node outcomes as Prometheus metrics:
//
//	canopy_ticks_total{tree,status}            evaluation calls by outcome
//	canopy_tick_duration_seconds{tree}         evaluation call latency
//	canopy_resumed_ticks_total{tree}           calls that resumed a suspended run
//	canopy_node_completions_total{tree,kind,status}
//
// Node completions are the hot path; leave them out with WithoutNodeMetrics
// when trees are large.
type PrometheusObserver struct {
	ticks    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	resumed  *prometheus.CounterVec
	nodes    *prometheus.CounterVec

	nodeMetrics bool
}

var _ api.Observer = (*PrometheusObserver)(nil)

// Option configures a PrometheusObserver.
type Option func(*config)

type config struct {
	namespace   string
	buckets     []float64
	nodeMetrics bool
}

// WithNamespace replaces the "canopy" metric name prefix.
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithBuckets sets the tick duration histogram buckets, in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(c *config) {
		c.buckets = buckets
	}
}

// WithoutNodeMetrics disables the per-node completion counter.
func WithoutNodeMetrics() Option {
	return func(c *config) {
		c.nodeMetrics = false
	}
}

// NewPrometheusObserver creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer. If any collector fails to
// register, none of them stay registered.
func NewPrometheusObserver(reg prometheus.Registerer, opts ...Option) (*PrometheusObserver, error) {
	cfg := config{
		namespace:   "canopy",
		buckets:     []float64{.00001, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		nodeMetrics: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &PrometheusObserver{
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "ticks_total",
				Help:      "Total number of evaluation calls by outcome",
			},
			[]string{"tree", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "tick_duration_seconds",
				Help:      "Duration of evaluation calls",
				Buckets:   cfg.buckets,
			},
			[]string{"tree"},
		),
		resumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "resumed_ticks_total",
				Help:      "Total number of evaluation calls that resumed a suspended run",
			},
			[]string{"tree"},
		),
		nodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "node_completions_total",
				Help:      "Total number of node evaluations by kind and outcome",
			},
			[]string{"tree", "kind", "status"},
		),
		nodeMetrics: cfg.nodeMetrics,
	}

	collectors := []prometheus.Collector{o.ticks, o.duration, o.resumed}
	if o.nodeMetrics {
		collectors = append(collectors, o.nodes)
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			// Leave reg as it was so the caller can retry.
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}
			return nil, err
		}
	}
	return o, nil
}

func (o *PrometheusObserver) OnTickStart(tick api.TickInfo) {
	if tick.Resume >= 0 {
		o.resumed.WithLabelValues(tick.Tree).Inc()
	}
}

func (o *PrometheusObserver) OnNodeCompleted(tick api.TickInfo, node api.NodeInfo, status api.Status) {
	if !o.nodeMetrics {
		return
	}
	o.nodes.WithLabelValues(tick.Tree, node.Kind.String(), status.String()).Inc()
}

func (o *PrometheusObserver) OnTickCompleted(tick api.TickInfo, status api.Status, d time.Duration) {
	o.ticks.WithLabelValues(tick.Tree, status.String()).Inc()
	o.duration.WithLabelValues(tick.Tree).Observe(d.Seconds())
}
