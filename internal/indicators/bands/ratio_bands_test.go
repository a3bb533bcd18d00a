package bands

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spikeSeries(n int, base, last float64) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = base
	}
	series[n-1] = last
	return series
}

func TestCalculate_InsufficientPoints(t *testing.T) {
	_, err := Calculate(nil, 1.2)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	_, err = Calculate([]float64{2.0}, 1.2)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestCalculate_ZeroDivisor(t *testing.T) {
	_, err := Calculate([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestCalculate_SampleStdDev(t *testing.T) {
	series := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	b, err := Calculate(series, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, b.Mean, 1e-12)
	// Population stdev is 2; the sample estimator divides by n-1
	assert.InDelta(t, math.Sqrt(32.0/7.0), b.StdDev, 1e-12)
	assert.Equal(t, 9.0, b.Last)
	assert.Equal(t, 8, b.Points)
}

func TestCalculate_SpikeScenario(t *testing.T) {
	series := spikeSeries(40, 2.0, 2.5)

	b, err := Calculate(series, 1.2)
	require.NoError(t, err)

	assert.InDelta(t, 2.0125, b.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(0.00625), b.StdDev, 1e-12)
	assert.Greater(t, b.Last, b.Upper)
	assert.Greater(t, b.ZScore(), 0.0)
}

func TestCalculate_BandSymmetry(t *testing.T) {
	inputs := [][]float64{
		{1.1, 1.3, 1.2, 1.25, 1.15},
		spikeSeries(40, 2.0, 2.5),
		{0.5, 0.7},
	}

	for _, series := range inputs {
		for _, divisor := range []float64{1.2, 2.0, 0.75} {
			b, err := Calculate(series, divisor)
			require.NoError(t, err)

			assert.InDelta(t, b.StdDev/divisor, b.Upper-b.Mean, 1e-12)
			assert.InDelta(t, b.StdDev/divisor, b.Mean-b.Lower, 1e-12)
			assert.InDelta(t, b.Width(), b.Mean-b.Lower, 1e-12)
		}
	}
}

func TestCalculate_FlatSeries(t *testing.T) {
	b, err := Calculate(spikeSeries(10, 1.5, 1.5), 1.2)
	require.NoError(t, err)

	assert.Equal(t, 0.0, b.StdDev)
	assert.Equal(t, b.Mean, b.Upper)
	assert.Equal(t, b.Mean, b.Lower)
	assert.Equal(t, 0.0, b.ZScore())
}

func BenchmarkCalculate(b *testing.B) {
	series := spikeSeries(500, 2.0, 2.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Calculate(series, 1.2)
	}
}
