package bands

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientPoints is returned when the series is too short for a sample standard deviation
var ErrInsufficientPoints = errors.New("at least 2 points are required for band statistics")

// MinPoints is the smallest series length with a defined sample standard deviation
const MinPoints = 2

// RatioBands are mean +/- stdev/divisor bands over a ratio series
type RatioBands struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Upper  float64 `json:"upper"`
	Lower  float64 `json:"lower"`
	Last   float64 `json:"last"`
	Points int     `json:"points"`
}

// Calculate computes the bands over series. StdDev is the unbiased (n-1) estimator.
func Calculate(series []float64, divisor float64) (*RatioBands, error) {
	if len(series) < MinPoints {
		return nil, ErrInsufficientPoints
	}
	if divisor == 0 {
		return nil, errors.New("band divisor must be non-zero")
	}

	mean, stdDev := stat.MeanStdDev(series, nil)
	width := stdDev / divisor

	return &RatioBands{
		Mean:   mean,
		StdDev: stdDev,
		Upper:  mean + width,
		Lower:  mean - width,
		Last:   series[len(series)-1],
		Points: len(series),
	}, nil
}

// Width returns the half-width of the bands
func (b *RatioBands) Width() float64 {
	return b.Upper - b.Mean
}

// ZScore returns how many standard deviations Last sits from Mean, or 0 for a flat series
func (b *RatioBands) ZScore() float64 {
	if b.StdDev == 0 || math.IsNaN(b.StdDev) {
		return 0
	}
	return (b.Last - b.Mean) / b.StdDev
}
