// metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics captures counters for the decision pipeline.
type Metrics interface {
	ObserveDecision(decision, method string, durationSeconds float64)
	IncEvaluationError(kind string)
	IncCacheOp(op string)
	IncAuditDropped()
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) ObserveDecision(string, string, float64) {}
func (Noop) IncEvaluationError(string)               {}
func (Noop) IncCacheOp(string)                       {}
func (Noop) IncAuditDropped()                        {}

// Prom implements Metrics backed by Prometheus collectors.
type Prom struct {
	decisions        *prometheus.CounterVec
	decisionDuration *prometheus.HistogramVec
	evaluationErrors *prometheus.CounterVec
	cacheOps         *prometheus.CounterVec
	auditDropped     prometheus.Counter
}

func NewProm(namespace string) *Prom {
	p := &Prom{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Decisions by outcome and combination method",
		}, []string{"decision", "method"}),
		decisionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_duration_seconds",
			Help:      "End to end decision latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"decision"}),
		evaluationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_errors_total",
			Help:      "Evaluations that failed before a decision, by kind",
		}, []string{"kind"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_cache_ops_total",
			Help:      "Decision cache operations by op",
		}, []string{"op"}),
		auditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_dropped_total",
			Help:      "Audit entries shed by the bounded queue",
		}),
	}

	prometheus.MustRegister(
		p.decisions,
		p.decisionDuration,
		p.evaluationErrors,
		p.cacheOps,
		p.auditDropped,
	)
	return p
}

func (p *Prom) ObserveDecision(decision, method string, durationSeconds float64) {
	p.decisions.WithLabelValues(decision, method).Inc()
	p.decisionDuration.WithLabelValues(decision).Observe(durationSeconds)
}

func (p *Prom) IncEvaluationError(kind string) {
	p.evaluationErrors.WithLabelValues(kind).Inc()
}

func (p *Prom) IncCacheOp(op string) {
	p.cacheOps.WithLabelValues(op).Inc()
}

func (p *Prom) IncAuditDropped() {
	p.auditDropped.Inc()
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
