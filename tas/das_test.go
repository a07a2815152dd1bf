package tas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotaser/bands"
)

func generateSpectrum(t *testing.T, bs *bands.BandStructure, weights bands.KPointWeights, cfg GenerateConfig) *Spectrum {
	t.Helper()
	gen, err := NewGenerator(bs, weights, nil, nil)
	require.NoError(t, err)
	sp, err := gen.Generate(context.Background(), cfg)
	require.NoError(t, err)
	return sp
}

func TestDifferenceSelf(t *testing.T) {
	bs, weights := bands.ParabolicSystem(2.0, 3.0, 2, 2, 8)
	sp := generateSpectrum(t, bs, weights, GenerateConfig{Temp: 300})

	das, err := Difference(sp, sp)
	require.NoError(t, err)

	// A system against itself is flat zero everywhere.
	for _, v := range das.Total {
		assert.Zero(t, v)
	}
	for _, curve := range das.Decomp {
		for _, v := range curve {
			assert.Zero(t, v)
		}
	}
	assert.Empty(t, das.MissingKeys)
	assert.True(t, das.JDOSOnly)
	assert.Equal(t, das.BandgapNew, das.BandgapRef)
}

func TestDifferenceTwoSystems(t *testing.T) {
	cfg := GenerateConfig{Temp: 300}
	wide, weights := bands.ParabolicSystem(2.4, 3.0, 2, 2, 8)
	narrow, _ := bands.ParabolicSystem(2.0, 3.0, 2, 2, 8)

	specWide := generateSpectrum(t, wide, weights, cfg)
	specNarrow := generateSpectrum(t, narrow, weights, cfg)

	das, err := Difference(specWide, specNarrow)
	require.NoError(t, err)

	// Same band counts: the gap-centre-relative keys line up exactly.
	assert.Empty(t, das.MissingKeys)
	assert.Len(t, das.Decomp, 6)
	assert.Equal(t, 2.4, das.BandgapNew)
	assert.Equal(t, 2.0, das.BandgapRef)

	// The narrower-gap reference absorbs below the new system's onset,
	// so the difference dips negative between the two gaps.
	var dip float64
	for m, e := range das.Mesh {
		if e > 2.0 && e < 2.4 {
			dip += das.Total[m]
		}
	}
	assert.Less(t, dip, 0.0)
}

func TestDifferenceMissingKeys(t *testing.T) {
	cfg := GenerateConfig{Temp: 300}
	small, smallW := bands.ParabolicSystem(2.0, 3.0, 1, 1, 8)
	large, largeW := bands.ParabolicSystem(2.0, 3.0, 2, 2, 8)

	specSmall := generateSpectrum(t, small, smallW, cfg)
	specLarge := generateSpectrum(t, large, largeW, cfg)

	das, err := Difference(specLarge, specSmall)
	require.NoError(t, err)

	// Only the band-edge pair exists on both sides; the deeper and
	// higher transitions of the larger system are reported, in
	// canonical order, rather than silently zero-filled.
	assert.Len(t, das.Decomp, 1)
	_, ok := das.Decomp[TransitionKey{I: 0, F: 1}]
	assert.True(t, ok)

	require.Len(t, das.MissingKeys, 5)
	sorted := make([]TransitionKey, len(das.MissingKeys))
	copy(sorted, das.MissingKeys)
	SortKeys(sorted)
	assert.Equal(t, sorted, das.MissingKeys)
}

func TestDifferenceMeshMismatch(t *testing.T) {
	bs, weights := bands.ParabolicSystem(2.0, 3.0, 1, 1, 4)
	a := generateSpectrum(t, bs, weights, GenerateConfig{Temp: 300, EnergyMax: 5, Step: 0.01})
	b := generateSpectrum(t, bs, weights, GenerateConfig{Temp: 300, EnergyMax: 5, Step: 0.02})

	_, err := Difference(a, b)
	assert.ErrorIs(t, err, ErrMeshMismatch)
}
