package events

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// footprintComputations counts computed footprints by tier and whether
	// the history log saved them.
	footprintComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eco_footprint_computations_total",
			Help: "Total number of computed footprints.",
		},
		[]string{"tier", "saved"},
	)

	footprintLatest = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "eco_footprint_latest_grams",
			Help: "Daily CO2 total of the most recent computation in grams.",
		},
	)

	// footprintTotals buckets span the tier boundaries.
	footprintTotals = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eco_footprint_grams",
			Help:    "Distribution of computed daily CO2 totals in grams.",
			Buckets: []float64{1000, 3000, 6000, 9000, 12000, 20000, 40000},
		},
	)
)

func init() {
	prometheus.MustRegister(footprintComputations, footprintLatest, footprintTotals)
}

// MetricsObserver records every computed footprint in Prometheus.
type MetricsObserver struct{}

// OnComputed implements Observer.
func (MetricsObserver) OnComputed(_ context.Context, ev ComputedEvent) error {
	footprintComputations.WithLabelValues(string(ev.Result.Tier), strconv.FormatBool(ev.Saved)).Inc()
	footprintLatest.Set(ev.Result.TotalGramsCO2)
	footprintTotals.Observe(ev.Result.TotalGramsCO2)
	return nil
}
