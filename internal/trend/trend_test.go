package trend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitLinePerfectLine(t *testing.T) {
	r := require.New(t)
	series := []float32{1, 3, 5, 7, 9}

	fit, err := FitLine(series)
	r.NoError(err)
	r.InDelta(2.0, fit.Slope, 1e-6)
	r.InDelta(1.0, fit.Intercept, 1e-6)
	r.InDelta(1.0, fit.RSquared, 1e-6)
}

func TestFitLineConstantSeries(t *testing.T) {
	r := require.New(t)
	series := []float32{4, 4, 4, 4}

	fit, err := FitLine(series)
	r.NoError(err)
	r.InDelta(0.0, fit.Slope, 1e-6)
	r.InDelta(4.0, fit.Intercept, 1e-6)
	r.InDelta(0.0, fit.RSquared, 1e-6)
}

func TestFitLineNoisySeriesPartialFit(t *testing.T) {
	r := require.New(t)
	series := []float32{0, 2, 1, 4, 3, 6}

	fit, err := FitLine(series)
	r.NoError(err)
	r.Greater(fit.Slope, 0.0)
	r.Greater(fit.RSquared, 0.0)
	r.Less(fit.RSquared, 1.0)
}

func TestFitLineTooFewPoints(t *testing.T) {
	r := require.New(t)
	_, err := FitLine([]float32{1})
	r.Error(err)

	_, err = FitLine(nil)
	r.Error(err)
}

func TestFitEstimate(t *testing.T) {
	r := require.New(t)
	fit := Fit{Slope: 2, Intercept: 1}
	r.InDelta(1.0, fit.Estimate(0), 1e-9)
	r.InDelta(11.0, fit.Estimate(5), 1e-9)
}
