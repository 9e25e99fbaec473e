package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsHandler records observation counts and durations as Prometheus
// metrics, labeled by observation name and outcome.
type MetricsHandler struct {
	observationsTotal   *prometheus.CounterVec
	observationDuration *prometheus.HistogramVec
	activeObservations  *prometheus.GaugeVec
}

// NewMetricsHandler creates a metrics handler registered with the given
// registerer. If registerer is nil, the default registerer is used.
func NewMetricsHandler(registerer prometheus.Registerer) *MetricsHandler {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &MetricsHandler{
		observationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "avagraphql",
				Subsystem: "observation",
				Name:      "observations_total",
				Help:      "Total number of completed observations",
			},
			[]string{"name", "outcome"},
		),
		observationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "avagraphql",
				Subsystem: "observation",
				Name:      "observation_duration_seconds",
				Help:      "Observation duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"name"},
		),
		activeObservations: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "avagraphql",
				Subsystem: "observation",
				Name:      "active_observations",
				Help:      "Number of currently active observations",
			},
			[]string{"name"},
		),
	}
}

// OnStart increments the active observation gauge.
func (h *MetricsHandler) OnStart(octx ObservationContext) {
	h.activeObservations.WithLabelValues(octx.Base().Name()).Inc()
}

// OnError is a no-op; the outcome label is derived at stop time.
func (h *MetricsHandler) OnError(_ ObservationContext) {}

// OnStop records the completed observation.
func (h *MetricsHandler) OnStop(octx ObservationContext) {
	base := octx.Base()
	name := base.Name()

	outcome := "success"
	if base.Err() != nil {
		outcome = "error"
	}

	h.activeObservations.WithLabelValues(name).Dec()
	h.observationsTotal.WithLabelValues(name, outcome).Inc()
	h.observationDuration.WithLabelValues(name).Observe(time.Since(base.StartTime()).Seconds())
}
