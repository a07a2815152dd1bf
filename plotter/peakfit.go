package plotter

import (
	"errors"
	"math"

	"github.com/maorshutman/lm"
)

// PeakShape selects the line shape fitted to a spectral feature.
type PeakShape int

const (
	Gaussian PeakShape = iota
	Lorentzian
)

// Peak holds the parameters of one fitted spectral feature: amplitude,
// width (sigma for Gaussian, half-width for Lorentzian), centre energy
// and a constant baseline offset.
type Peak struct {
	Amp    float64
	Width  float64
	Center float64
	Offset float64
}

func (p Peak) eval(shape PeakShape, x float64) float64 {
	switch shape {
	case Lorentzian:
		return p.Amp*p.Width*p.Width/((x-p.Center)*(x-p.Center)+p.Width*p.Width) + p.Offset
	default:
		return p.Amp*math.Exp(-(x-p.Center)*(x-p.Center)/(2*p.Width*p.Width)) + p.Offset
	}
}

// FitPeak fits a single peak of the given shape to the curve ys over
// xs by Levenberg-Marquardt, starting from guess. The returned width
// is always positive.
func FitPeak(xs, ys []float64, shape PeakShape, guess Peak) (Peak, error) {
	if len(xs) != len(ys) || len(xs) < 4 {
		return Peak{}, errors.New("fit peak: need matching x/y arrays with at least 4 points")
	}

	f := func(dst, params []float64) {
		p := Peak{Amp: params[0], Width: params[1], Center: params[2], Offset: params[3]}
		for i := range xs {
			dst[i] = p.eval(shape, xs[i]) - ys[i]
		}
	}
	jacobian := lm.NumJac{Func: f}

	problem := lm.LMProblem{
		Dim:        4,
		Size:       len(xs),
		Func:       f,
		Jac:        jacobian.Jac,
		InitParams: []float64{guess.Amp, guess.Width, guess.Center, guess.Offset},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}
	results, err := lm.LM(problem, &lm.Settings{Iterations: 100, ObjectiveTol: 1e-16})
	if err != nil {
		return Peak{}, err
	}

	return Peak{
		Amp:    results.X[0],
		Width:  math.Abs(results.X[1]),
		Center: results.X[2],
		Offset: results.X[3],
	}, nil
}

// FitCurve samples the fitted peak on a uniform grid of n points from
// x0 with spacing dx, returning {xs, ys} pairs ready for plotting.
func FitCurve(p Peak, shape PeakShape, x0, dx float64, n int) [][]float64 {
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = x0 + float64(i)*dx
		ys[i] = p.eval(shape, xs[i])
	}
	return [][]float64{xs, ys}
}
