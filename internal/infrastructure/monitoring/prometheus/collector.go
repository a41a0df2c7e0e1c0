// Package prometheus provides the metrics registry and the lookup-specific
// metric set.  Components depend on the MetricsCollector interface so tests
// can register against an isolated registry.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is the metric registration surface used by the service.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) *prometheus.CounterVec
	RegisterGauge(name, help string, labels ...string) *prometheus.GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec

	// Handler returns the exposition endpoint for this collector's registry.
	Handler() http.Handler
}

// CollectorConfig holds registry construction parameters.
type CollectorConfig struct {
	Namespace            string
	ConstLabels          map[string]string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
}

type collector struct {
	registry *prometheus.Registry
	cfg      CollectorConfig

	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewMetricsCollector creates a MetricsCollector backed by a dedicated
// prometheus.Registry.  Namespace is required; it prefixes every metric name.
func NewMetricsCollector(cfg CollectorConfig) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(collectors.NewGoCollector())
	}

	return &collector{
		registry:   registry,
		cfg:        cfg,
		registered: make(map[string]prometheus.Collector),
	}, nil
}

// register stores and registers c under name exactly once; duplicate names
// return the original collector so repeated construction is harmless.
func (p *collector) register(name string, build func() prometheus.Collector) prometheus.Collector {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.registered[name]; ok {
		return existing
	}
	c := build()
	p.registry.MustRegister(c)
	p.registered[name] = c
	return c
}

func (p *collector) RegisterCounter(name, help string, labels ...string) *prometheus.CounterVec {
	return p.register(name, func() prometheus.Collector {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   p.cfg.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: p.cfg.ConstLabels,
		}, labels)
	}).(*prometheus.CounterVec)
}

func (p *collector) RegisterGauge(name, help string, labels ...string) *prometheus.GaugeVec {
	return p.register(name, func() prometheus.Collector {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   p.cfg.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: p.cfg.ConstLabels,
		}, labels)
	}).(*prometheus.GaugeVec)
}

func (p *collector) RegisterHistogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return p.register(name, func() prometheus.Collector {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   p.cfg.Namespace,
			Name:        name,
			Help:        help,
			Buckets:     buckets,
			ConstLabels: p.cfg.ConstLabels,
		}, labels)
	}).(*prometheus.HistogramVec)
}

func (p *collector) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
