package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "delbar"

// Recorder counts provider calls and fallbacks per operation.
type Recorder interface {
	ProviderCall(operation, provider, outcome string)
	Fallback(operation, reason string)
}

// Noop implements Recorder without emitting anything.
type Noop struct{}

func (Noop) ProviderCall(string, string, string) {}
func (Noop) Fallback(string, string)             {}

// Prom implements Recorder backed by Prometheus counters.
type Prom struct {
	providerCalls *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
}

// NewProm registers the counters on reg.
func NewProm(reg prometheus.Registerer) (*Prom, error) {
	p := &Prom{
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Provider calls by operation, provider and outcome",
		}, []string{"operation", "provider", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Static fallback replies by operation and reason",
		}, []string{"operation", "reason"}),
	}
	for _, c := range []prometheus.Collector{p.providerCalls, p.fallbacks} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prom) ProviderCall(operation, provider, outcome string) {
	p.providerCalls.WithLabelValues(operation, provider, outcome).Inc()
}

func (p *Prom) Fallback(operation, reason string) {
	p.fallbacks.WithLabelValues(operation, reason).Inc()
}

// Handler returns an HTTP handler for /metrics on the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Result of creating the metrics registry
type Result struct {
	fx.Out

	Gatherer prometheus.Gatherer
	Recorder Recorder
}

// New creates a registry with process/go collectors and the reply counters.
func New() (Result, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rec, err := NewProm(reg)
	if err != nil {
		return Result{}, err
	}

	return Result{Gatherer: reg, Recorder: rec}, nil
}

// Module provides the metrics registry and recorder
func Module() fx.Option {
	return fx.Module(
		"metrics",
		fx.Provide(
			New,
		),
	)
}
