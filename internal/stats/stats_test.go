package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptive(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 5.0, Mean(values), 1e-9)
	assert.InDelta(t, 4.571428571, Variance(values), 1e-6)
	assert.InDelta(t, 2.138089935, StdDev(values), 1e-6)
	assert.Equal(t, 4.5, Median(values))
	assert.Equal(t, 2.0, Min(values))
	assert.Equal(t, 9.0, Max(values))
	assert.Equal(t, 40.0, Sum(values))
	assert.Equal(t, 7.0, Range(values))
}

func TestDescriptiveEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Variance(nil))
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 0.0, Min(nil))
	assert.Equal(t, 0.0, Max(nil))
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestPercentileInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Percentile(values, 0))
	assert.Equal(t, 4.0, Percentile(values, 100))
	assert.InDelta(t, 2.5, Percentile(values, 50), 1e-9)
	// Input order must not matter.
	assert.InDelta(t, 2.5, Percentile([]float64{4, 1, 3, 2}, 50), 1e-9)
}

func TestPearsonCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 1.0, PearsonCorrelation(x, []float64{2, 4, 6, 8, 10}), 1e-9)
	assert.InDelta(t, -1.0, PearsonCorrelation(x, []float64{10, 8, 6, 4, 2}), 1e-9)
	assert.Equal(t, 0.0, PearsonCorrelation(x, []float64{3, 3, 3, 3, 3})) // zero variance
	assert.Equal(t, 0.0, PearsonCorrelation(x, []float64{1, 2}))         // length mismatch
}

func TestSpearmanCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	// Monotone but non-linear relation still ranks perfectly.
	y := []float64{1, 8, 27, 64, 125}
	assert.InDelta(t, 1.0, SpearmanCorrelation(x, y), 1e-9)
	assert.InDelta(t, -1.0, SpearmanCorrelation(x, []float64{125, 64, 27, 8, 1}), 1e-9)
}

func TestRankTies(t *testing.T) {
	ranks := rank([]float64{10, 20, 20, 30})
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, ranks)
}

func TestRSquared(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, 1.0, RSquared(x, y), 1e-9)
}
