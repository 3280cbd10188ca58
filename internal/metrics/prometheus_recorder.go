package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg      *prom.Registry
	events   *prom.CounterVec
	plants   *prom.CounterVec
	tasks    *prom.GaugeVec
	grown    prom.Gauge
	unlocked prom.Gauge
}

// NewPrometheusRecorder registers the garden metrics on reg (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		events: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "garden",
			Name:      "events_total",
			Help:      "Garden events by kind",
		}, []string{"kind"}),
		plants: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "garden",
			Name:      "plants_grown_total",
			Help:      "Plants grown in this process by category and size",
		}, []string{"category", "size"}),
		tasks: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "garden",
			Name:      "tasks",
			Help:      "Tasks currently in the garden by state",
		}, []string{"state"}),
		grown: prom.NewGauge(prom.GaugeOpts{
			Namespace: "garden",
			Name:      "plants",
			Help:      "Plants currently in the garden",
		}),
		unlocked: prom.NewGauge(prom.GaugeOpts{
			Namespace: "garden",
			Name:      "achievements_unlocked",
			Help:      "Unlocked achievements",
		}),
	}
	reg.MustRegister(pr.events, pr.plants, pr.tasks, pr.grown, pr.unlocked)
	return pr
}

func (p *PrometheusRecorder) IncEvent(kind string) { p.events.WithLabelValues(kind).Inc() }

func (p *PrometheusRecorder) IncPlant(category, size string) {
	p.plants.WithLabelValues(category, size).Inc()
}

func (p *PrometheusRecorder) SetGarden(openTasks, completedTasks, plants int) {
	p.tasks.WithLabelValues("open").Set(float64(openTasks))
	p.tasks.WithLabelValues("completed").Set(float64(completedTasks))
	p.grown.Set(float64(plants))
}

func (p *PrometheusRecorder) SetUnlocked(n int) { p.unlocked.Set(float64(n)) }

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}
