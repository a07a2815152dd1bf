package tas

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrMeshMismatch marks an attempt to difference spectra generated on
// different energy meshes.
var ErrMeshMismatch = errors.New("difference: spectra were generated on different energy meshes")

// DAS is the two-system differential-absorption result: a new system
// minus a reference system, both generated under the same conditions.
// Built once per Difference call and not mutated afterwards.
type DAS struct {
	// Total is alpha(new)-alpha(ref) when both systems carry
	// dielectric data, otherwise the pure JDOS change, flagged by
	// JDOSOnly so downstream consumers never present a ΔJDOS as an
	// absorption difference.
	Total    []float64
	JDOSOnly bool

	JDOSNewTotal []float64
	JDOSNew      map[TransitionKey][]float64
	JDOSRefTotal []float64
	JDOSRef      map[TransitionKey][]float64

	// Decomp is the per-transition new-minus-reference JDOS change,
	// over keys present in both systems.
	Decomp map[TransitionKey][]float64

	// Oscillator-weighted output; nil unless both systems carry
	// dielectric data.
	AlphaNew       []float64
	AlphaRef       []float64
	WeightedNew    map[TransitionKey][]float64
	WeightedRef    map[TransitionKey][]float64
	WeightedDecomp map[TransitionKey][]float64

	// MissingKeys lists, in (spin, i, f) order, the transition keys
	// present in only one of the two systems. Those transitions are
	// dropped from every differenced decomposition; with differing
	// band counts the gap-centre normalisation usually keeps the
	// physically comparable transitions aligned, but a non-empty list
	// is worth inspecting.
	MissingKeys []TransitionKey

	Mesh       []float64
	BandgapNew float64
	BandgapRef float64
	Temp       float64
}

// Difference builds the DAS of a new system against a reference
// system. Both spectra must share the energy mesh. The absorption-
// coefficient difference is used whenever both sides carry dielectric
// data; otherwise the result falls back to the JDOS change and says
// so via JDOSOnly.
func Difference(newSys, ref *Spectrum) (*DAS, error) {
	if len(newSys.Mesh) != len(ref.Mesh) || !floats.EqualApprox(newSys.Mesh, ref.Mesh, 1e-12) {
		return nil, ErrMeshMismatch
	}

	d := &DAS{
		JDOSNewTotal: newSys.JDOSTotal,
		JDOSNew:      newSys.JDOS,
		JDOSRefTotal: ref.JDOSTotal,
		JDOSRef:      ref.JDOS,
		Decomp:       diffDecomp(newSys.JDOS, ref.JDOS),
		AlphaNew:     newSys.Alpha,
		AlphaRef:     ref.Alpha,
		WeightedNew:  newSys.WeightedJDOS,
		WeightedRef:  ref.WeightedJDOS,
		MissingKeys:  unmatchedKeys(newSys.JDOS, ref.JDOS),
		Mesh:         newSys.Mesh,
		BandgapNew:   newSys.Bandgap,
		BandgapRef:   ref.Bandgap,
		Temp:         newSys.Temp,
	}
	if newSys.HasAlpha() && ref.HasAlpha() {
		d.Total = subtract(newSys.Alpha, ref.Alpha)
		d.WeightedDecomp = diffDecomp(newSys.WeightedJDOS, ref.WeightedJDOS)
	} else {
		d.Total = subtract(newSys.JDOSTotal, ref.JDOSTotal)
		d.JDOSOnly = true
	}
	return d, nil
}

// unmatchedKeys returns the symmetric difference of the two key sets
// in canonical order.
func unmatchedKeys(a, b map[TransitionKey][]float64) []TransitionKey {
	var missing []TransitionKey
	for key := range a {
		if _, ok := b[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range b {
		if _, ok := a[key]; !ok {
			missing = append(missing, key)
		}
	}
	SortKeys(missing)
	return missing
}
