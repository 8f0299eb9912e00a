package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodlens-bot/internal/domain/entity"
)

// Collector метрики обработки событий
type Collector struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New создаёт коллектор на отдельном реестре.
func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound chat events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_duration_seconds",
			Help:      "Time spent handling one inbound event.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
	}
	reg.MustRegister(c.outcomes, c.duration)
	return c
}

// Observe учитывает результат обработки события
func (c *Collector) Observe(out entity.Outcome, elapsed time.Duration) {
	kind := string(out.Kind)
	if kind == "" {
		kind = string(entity.EventOther)
	}
	c.outcomes.WithLabelValues(kind, string(out.Status)).Inc()
	c.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Handler отдаёт метрики в формате Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
