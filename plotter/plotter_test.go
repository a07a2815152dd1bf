package plotter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotaser/bands"
	"gotaser/tas"
)

func TestEnergyWavelengthRoundTrip(t *testing.T) {
	for _, ev := range []float64{0.5, 1.0, 2.4, 5.0} {
		assert.InEpsilon(t, ev, LambdaToEv(EvToLambda(ev)), 1e-12)
	}
	// 1 eV is roughly 1240 nm.
	assert.InDelta(t, 1239.84, EvToLambda(1.0), 0.01)
}

func TestCutoffTransitions(t *testing.T) {
	decomp := map[tas.TransitionKey][]float64{
		{I: 0, F: 1}:  {0, -1.0, 0},
		{I: 0, F: 2}:  {0, 0.5, 0},
		{I: -1, F: 1}: {0.001, 0, 0},
	}

	// Magnitude-based cutoff: the negative bleach counts at full
	// strength, the weak transition falls away.
	keys := CutoffTransitions(decomp, 0.03, 0, 3)
	assert.Equal(t, []tas.TransitionKey{{I: 0, F: 1}, {I: 0, F: 2}}, keys)

	// Cutoff above the second transition's fraction keeps only the
	// strongest, and a tiny cutoff keeps all three in canonical order.
	keys = CutoffTransitions(decomp, 0.6, 0, 3)
	assert.Equal(t, []tas.TransitionKey{{I: 0, F: 1}}, keys)
	keys = CutoffTransitions(decomp, 1e-4, 0, 3)
	assert.Equal(t, []tas.TransitionKey{{I: -1, F: 1}, {I: 0, F: 1}, {I: 0, F: 2}}, keys)
}

func TestWindowBounds(t *testing.T) {
	mesh := []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0}

	lo, hi, err := window(mesh, Options{XAxis: AxisEnergy})
	require.NoError(t, err)
	assert.Equal(t, 0, lo)
	assert.Equal(t, len(mesh), hi)

	lo, hi, err = window(mesh, Options{XAxis: AxisEnergy, XMin: 1.0, XMax: 2.0})
	require.NoError(t, err)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 5, hi)

	// Wavelength bounds invert: a 413..1240 nm window is 1..3 eV.
	lo, hi, err = window(mesh, Options{XAxis: AxisWavelength, XMin: 413, XMax: 1239.9})
	require.NoError(t, err)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 7, hi)

	_, _, err = window(mesh, Options{XAxis: AxisEnergy, XMin: 10})
	assert.Error(t, err)
	_, _, err = window(mesh, Options{XAxis: AxisEnergy, XMin: 1.0, XMax: 1.2})
	assert.Error(t, err)
}

func testTAS(t *testing.T) *tas.TAS {
	t.Helper()
	bs, weights := bands.ParabolicSystem(2.0, 3.0, 2, 2, 8)
	dos := bands.DosFromBands(bs, weights, 0.05, 1e21, 500)
	gen, err := tas.NewGenerator(bs, weights, dos, nil)
	require.NoError(t, err)
	res, err := gen.GenerateTAS(context.Background(), tas.TASConfig{
		GenerateConfig: tas.GenerateConfig{Temp: 300, EnergyMax: 4, Step: 0.05},
		Conc:           1e18,
	})
	require.NoError(t, err)
	return res
}

func TestPlotTAS(t *testing.T) {
	res := testTAS(t)
	path := filepath.Join(t.TempDir(), "tas.png")
	require.NoError(t, PlotTAS(res, Options{Material: "toy", Temp: 300, Conc: 1e18}, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotJDOSWavelengthAxis(t *testing.T) {
	res := testTAS(t)
	path := filepath.Join(t.TempDir(), "jdos.png")
	err := PlotJDOS(res, Options{XAxis: AxisWavelength, XMin: 350, XMax: 1500}, path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPlotAlphaUnavailable(t *testing.T) {
	res := testTAS(t)
	path := filepath.Join(t.TempDir(), "alpha.png")
	err := PlotAlpha(res, Options{}, path)
	assert.ErrorIs(t, err, tas.ErrNoDielectric)
}

func TestPlotUnknownTransition(t *testing.T) {
	res := testTAS(t)
	path := filepath.Join(t.TempDir(), "tas.png")
	err := PlotTAS(res, Options{Transitions: []tas.TransitionKey{{I: 5, F: 9}}}, path)
	assert.Error(t, err)
}
