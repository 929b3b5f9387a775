package observe

import (
	"context"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pocketgraph"

// Metrics counts node runs, retries, fallbacks and errors, and records node
// and flow durations, all labeled by node name.
type Metrics struct {
	runs      *prometheus.CounterVec
	retries   *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	errors    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	flows     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_runs_total",
			Help:      "Completed node runs by resulting action.",
		}, []string{"node", "action"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_retries_total",
			Help:      "Failed exec attempts that were retried.",
		}, []string{"node"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_fallbacks_total",
			Help:      "Exec fallbacks invoked after the last attempt failed.",
		}, []string{"node"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_errors_total",
			Help:      "Node runs that ended in an error.",
		}, []string{"node"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Wall time of node runs, including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"node"}),
		flows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_duration_seconds",
			Help:      "Wall time of flow runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"flow"}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.retries, m.fallbacks, m.errors, m.duration, m.flows} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Notify implements core.Observer.
func (m *Metrics) Notify(_ context.Context, e core.Event) {
	switch e.Type {
	case core.EventNodeEnd:
		action := e.Action
		if action == "" {
			action = core.ActionDefault
		}
		m.runs.WithLabelValues(e.Node, string(action)).Inc()
		m.duration.WithLabelValues(e.Node).Observe(e.Duration.Seconds())
	case core.EventNodeError:
		m.errors.WithLabelValues(e.Node).Inc()
		m.duration.WithLabelValues(e.Node).Observe(e.Duration.Seconds())
	case core.EventNodeRetry:
		m.retries.WithLabelValues(e.Node).Inc()
	case core.EventNodeFallback:
		m.fallbacks.WithLabelValues(e.Node).Inc()
	case core.EventFlowEnd:
		m.flows.WithLabelValues(e.Node).Observe(e.Duration.Seconds())
	}
}
