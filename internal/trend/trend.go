// Package trend fits an ordinary-least-squares line to a trajectory series,
// such as one row of a PairwiseTrajectories result, giving a quick summary
// of whether a pair's relatedness is drifting up or down over time and how
// well a straight line actually explains that drift.
package trend

import "fmt"

// Fit is the result of fitting y = Slope*x + Intercept to a series of
// (x, y) points, x running 0..len(y)-1.
type Fit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// String renders the fit the way a one-line trend summary would be printed
// in a report: the line formula followed by its goodness of fit.
func (f Fit) String() string {
	return fmt.Sprintf("y = %.6g*x + %.6g (R^2 = %.4f)", f.Slope, f.Intercept, f.RSquared)
}

// Estimate evaluates the fitted line at x.
func (f Fit) Estimate(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// FitLine performs simple linear regression over series, treating each
// element's index as its x coordinate. It returns an error if series has
// fewer than two points, since a line isn't meaningfully defined otherwise.
func FitLine(series []float32) (Fit, error) {
	n := len(series)
	if n < 2 {
		return Fit{}, fmt.Errorf("trend: need at least 2 points to fit a line, got %d", n)
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range series {
		x := float64(i)
		yf := float64(y)
		sumX += x
		sumY += yf
		sumXY += x * yf
		sumX2 += x * x
	}

	nf := float64(n)
	meanX := sumX / nf
	meanY := sumY / nf

	denom := sumX2 - nf*meanX*meanX
	if denom == 0 {
		// All x values coincide, which can't happen for index-based x
		// unless n == 1, already rejected above; guard anyway.
		return Fit{}, fmt.Errorf("trend: degenerate series, cannot fit a line")
	}

	slope := (sumXY - nf*meanX*meanY) / denom
	intercept := meanY - slope*meanX

	var ssTot, ssRes float64
	for i, y := range series {
		yf := float64(y)
		predicted := slope*float64(i) + intercept
		ssTot += (yf - meanY) * (yf - meanY)
		ssRes += (yf - predicted) * (yf - predicted)
	}

	var r2 float64
	if ssTot != 0 {
		r2 = 1.0 - ssRes/ssTot
	}

	return Fit{Slope: slope, Intercept: intercept, RSquared: r2}, nil
}
