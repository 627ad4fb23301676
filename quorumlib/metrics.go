package quorumlib

import "github.com/prometheus/client_golang/prometheus"

// Metrics is a set of counters the resolver reports into. All methods
// are safe to call on a nil receiver, so metrics are optional.
type Metrics struct {
	lookups        prometheus.Counter
	lookupFailures *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	cacheFailures  *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	vpnRejections  prometheus.Counter
}

func (m *Metrics) Lookup() {
	if m != nil {
		m.lookups.Inc()
	}
}

func (m *Metrics) LookupFailure(reason string) {
	if m != nil {
		m.lookupFailures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) SourceFailure(source string) {
	if m != nil {
		m.sourceFailures.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) CacheFailure(op string) {
	if m != nil {
		m.cacheFailures.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) CacheHit(source string) {
	if m != nil {
		m.cacheHits.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) VPNRejected() {
	if m != nil {
		m.vpnRejections.Inc()
	}
}

// NewMetrics creates and registers resolver counters.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	rv := &Metrics{
		lookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geoquorum",
			Name:      "lookups_total",
			Help:      "A number of performed lookups.",
		}),
		lookupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoquorum",
			Name:      "lookup_failures_total",
			Help:      "A number of failed lookups by a failure reason.",
		}, []string{"reason"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoquorum",
			Name:      "source_failures_total",
			Help:      "A number of absorbed source failures.",
		}, []string{"source"}),
		cacheFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoquorum",
			Name:      "cache_failures_total",
			Help:      "A number of absorbed cache backend failures.",
		}, []string{"op"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoquorum",
			Name:      "cache_hits_total",
			Help:      "A number of cache hits.",
		}, []string{"source"}),
		vpnRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geoquorum",
			Name:      "vpn_rejections_total",
			Help:      "A number of addresses rejected as proxied.",
		}),
	}

	registerer.MustRegister(rv.lookups,
		rv.lookupFailures,
		rv.sourceFailures,
		rv.cacheFailures,
		rv.cacheHits,
		rv.vpnRejections)

	return rv
}
