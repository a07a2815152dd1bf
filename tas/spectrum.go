package tas

import "gotaser/optics"

// ErrNoDielectric is returned when oscillator-weighted output is
// requested from a system generated without transition-dipole data.
var ErrNoDielectric = optics.ErrNoData

// Spectrum is the aggregated output of one Generate call for one
// system in one occupation state. It is a value container: built once,
// never mutated afterwards.
type Spectrum struct {
	// Mesh is the shared evaluation mesh of every curve below.
	Mesh []float64

	// JDOSTotal is the spin-summed joint density of states;
	// JDOS holds the per-transition curves it is the sum of.
	JDOSTotal []float64
	JDOS      map[TransitionKey][]float64

	// Alpha is the net absorption coefficient (cm^-1) interpolated
	// onto Mesh, and WeightedJDOS the oscillator-weighted
	// per-transition curves. Both are nil when the system carries no
	// dielectric data.
	Alpha        []float64
	WeightedJDOS map[TransitionKey][]float64

	Bandgap float64
	Temp    float64
}

// HasAlpha reports whether the spectrum carries oscillator-strength
// weighted output.
func (s *Spectrum) HasAlpha() bool { return s.Alpha != nil }

// AbsorptionCoefficient returns the absorption coefficient curve, or
// ErrNoDielectric for systems generated without dipole data. Callers
// that would otherwise fall back to JDOS should check the error rather
// than treat a nil curve as zeros.
func (s *Spectrum) AbsorptionCoefficient() ([]float64, error) {
	if s.Alpha == nil {
		return nil, ErrNoDielectric
	}
	return s.Alpha, nil
}
