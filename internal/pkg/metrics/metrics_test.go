package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// WithLabelValues panics when the label count does not match the
// declaration, so exercising each counter pins the label sets.
func TestCounterLabelSets(t *testing.T) {
	assert.NotPanics(t, func() {
		DrawsImported.WithLabelValues("euromillions", "web").Inc()
		ImportRuns.WithLabelValues("euromillions", "ok").Inc()
		StatsRecomputes.WithLabelValues("euromillions").Inc()
		BetsGenerated.WithLabelValues("euromillions", "random").Inc()
		PredictionsServed.WithLabelValues("euromillions", "balanced").Inc()
		HTTPDuration.WithLabelValues("/health", "GET", "200").Observe(0.01)
	})

	assert.GreaterOrEqual(t,
		testutil.ToFloat64(PredictionsServed.WithLabelValues("euromillions", "balanced")), 1.0)
}
