package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParabolicSystemGap(t *testing.T) {
	bs, weights := ParabolicSystem(2.0, 3.0, 2, 2, 40)
	require.NoError(t, bs.Validate())
	require.NoError(t, weights.Validate(bs.NumKpoints()))

	assert.Equal(t, 4, bs.NumBands())
	assert.Equal(t, 40, bs.NumKpoints())
	assert.False(t, bs.SpinPolarized())

	// k = 0 is on the sampled grid, so the extrema are exact.
	assert.InDelta(t, -1.0, bs.VBM(), 1e-12)
	assert.InDelta(t, 1.0, bs.CBM(), 1e-12)
	assert.InDelta(t, 2.0, bs.BandGap(), 1e-12)
	assert.InDelta(t, 0.0, bs.GapCenter(), 1e-12)

	// Highest valence band sits directly below the lowest conduction
	// band in the ascending band ordering.
	assert.Equal(t, 1, bs.VBMIndex(Up))
	assert.Equal(t, 2, bs.CBMIndex(Up))
}

func TestBandStructureValidate(t *testing.T) {
	tests := []struct {
		name string
		bs   BandStructure
	}{
		{name: "no channels", bs: BandStructure{}},
		{name: "empty bands", bs: BandStructure{Bands: map[Spin][][]float64{Up: {}}}},
		{
			name: "ragged kpoints",
			bs: BandStructure{Bands: map[Spin][][]float64{
				Up: {{-1, -1}, {1}},
			}},
		},
		{
			name: "channel shape mismatch",
			bs: BandStructure{Bands: map[Spin][][]float64{
				Up:   {{-1}, {1}},
				Down: {{-1}},
			}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.bs.Validate())
		})
	}
}

func TestMetallicGapCenter(t *testing.T) {
	bs := BandStructure{
		Bands:    map[Spin][][]float64{Up: {{-0.5, 0.2}, {0.1, 0.9}}},
		Efermi:   0.3,
		Metallic: true,
	}
	assert.Equal(t, 0.3, bs.GapCenter())
	assert.Equal(t, 0.0, bs.BandGap())
}

func TestKPointWeights(t *testing.T) {
	assert.Error(t, KPointWeights{0.5}.Validate(2))
	assert.Error(t, KPointWeights{0.5, -0.1}.Validate(2))
	assert.Error(t, KPointWeights{0, 0}.Validate(2))

	w := KPointWeights{1, 3}
	require.NoError(t, w.Validate(2))
	norm := w.Normalized()
	assert.InDelta(t, 0.25, norm[0], 1e-12)
	assert.InDelta(t, 0.75, norm[1], 1e-12)
	// Original weights untouched.
	assert.Equal(t, KPointWeights{1, 3}, w)
}
