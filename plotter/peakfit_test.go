package plotter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitPeakGaussian(t *testing.T) {
	truth := Peak{Amp: 2.5, Width: 0.15, Center: 2.0, Offset: 0.1}
	n := 80
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = 1.0 + float64(i)*0.025
		ys[i] = truth.eval(Gaussian, xs[i])
	}

	fit, err := FitPeak(xs, ys, Gaussian, Peak{Amp: 1, Width: 0.3, Center: 1.8})
	require.NoError(t, err)
	assert.InDelta(t, truth.Amp, fit.Amp, 1e-4)
	assert.InDelta(t, truth.Width, fit.Width, 1e-4)
	assert.InDelta(t, truth.Center, fit.Center, 1e-4)
	assert.InDelta(t, truth.Offset, fit.Offset, 1e-4)
}

func TestFitPeakLorentzian(t *testing.T) {
	truth := Peak{Amp: 1.2, Width: 0.2, Center: 1.5}
	n := 60
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = 0.5 + float64(i)*0.04
		ys[i] = truth.eval(Lorentzian, xs[i])
	}

	fit, err := FitPeak(xs, ys, Lorentzian, Peak{Amp: 1, Width: 0.3, Center: 1.4})
	require.NoError(t, err)
	assert.InDelta(t, truth.Amp, fit.Amp, 1e-3)
	assert.InDelta(t, truth.Width, fit.Width, 1e-3)
	assert.InDelta(t, truth.Center, fit.Center, 1e-3)

	// Width is reported positive regardless of the optimiser's sign.
	assert.Greater(t, fit.Width, 0.0)
}

func TestFitPeakInvalidInput(t *testing.T) {
	_, err := FitPeak([]float64{1, 2}, []float64{1, 2}, Gaussian, Peak{})
	assert.Error(t, err)
	_, err = FitPeak([]float64{1, 2, 3, 4}, []float64{1, 2}, Gaussian, Peak{})
	assert.Error(t, err)
}

func TestFitCurve(t *testing.T) {
	p := Peak{Amp: 1, Width: 0.1, Center: 2}
	curve := FitCurve(p, Gaussian, 1.5, 0.25, 5)
	require.Len(t, curve, 2)
	require.Len(t, curve[0], 5)
	assert.Equal(t, 1.5, curve[0][0])
	assert.Equal(t, 2.5, curve[0][4])
	// Maximum at the centre sample.
	assert.Equal(t, 1.0, curve[1][2])
}
