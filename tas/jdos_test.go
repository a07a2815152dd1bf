package tas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"gotaser/bands"
)

// toyBands is a two-band, one-k-point, non-spin-polarised semiconductor
// with the band edges at -1 and +1 eV.
func toyBands() (*bands.BandStructure, bands.KPointWeights) {
	bs := &bands.BandStructure{
		Bands:  map[bands.Spin][][]float64{bands.Up: {{-1.0}, {1.0}}},
		Efermi: 0,
	}
	return bs, bands.KPointWeights{1.0}
}

func TestJDOSSingleGaussian(t *testing.T) {
	bs, weights := toyBands()
	occs := Occupations(bs, bs.GapCenter(), 300)[bands.Up]
	mesh, err := NewMesh(0, 5, 0.5)
	require.NoError(t, err)

	curve := JDOS(bs, 1, 0, occs, mesh, weights, 0.1, bands.Up)
	require.Len(t, curve, len(mesh))

	// Fully occupied initial state, empty final state and unit k-point
	// weight: the curve is a bare area-normalised Gaussian at the
	// transition energy of 2 eV.
	peak := distuv.Normal{Mu: 2.0, Sigma: 0.1}
	for m, e := range mesh {
		assert.InDelta(t, peak.Prob(e), curve[m], 1e-12)
	}
}

func TestJDOSPauliBlocked(t *testing.T) {
	bs, weights := toyBands()
	mesh, err := NewMesh(0, 5, 0.5)
	require.NoError(t, err)

	// A full final state blocks the transition entirely.
	blocked := [][]float64{{1}, {1}}
	curve := JDOS(bs, 1, 0, blocked, mesh, weights, 0.1, bands.Up)
	for _, v := range curve {
		assert.Zero(t, v)
	}

	// Half-emptied final state halves the contribution.
	half := [][]float64{{1}, {0.5}}
	open := Occupations(bs, bs.GapCenter(), 300)[bands.Up]
	full := JDOS(bs, 1, 0, open, mesh, weights, 0.1, bands.Up)
	halved := JDOS(bs, 1, 0, half, mesh, weights, 0.1, bands.Up)
	for m := range mesh {
		assert.InDelta(t, full[m]/2, halved[m], 1e-12)
	}
}
