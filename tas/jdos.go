package tas

import (
	"gonum.org/v1/gonum/stat/distuv"

	"gotaser/bands"
)

// JDOS evaluates the broadened joint-density-of-states contribution of
// the single band pair i -> f (f above i) of one spin channel on the
// energy mesh.
//
// For every k-point the transition energy E_f(k)-E_i(k) is broadened
// with an area-normalised Gaussian of the given width and scaled by
// the Pauli occupation factor occ_i*(1-occ_f) and the effective
// k-point weight. Integrating the result over energy therefore
// recovers the occupation- and degeneracy-weighted transition count.
//
// weights is the effective per-k-point weight: the plain k-point
// degeneracies for an unweighted JDOS, or degeneracies multiplied by
// per-k dipole strengths for an oscillator-weighted JDOS.
func JDOS(bs *bands.BandStructure, f, i int, occs [][]float64, mesh []float64, weights []float64, width float64, spin bands.Spin) []float64 {
	energies := bs.Bands[spin]
	out := make([]float64, len(mesh))
	for k := range weights {
		factor := occs[i][k] * (1 - occs[f][k])
		if factor == 0 || weights[k] == 0 {
			continue
		}
		peak := distuv.Normal{Mu: energies[f][k] - energies[i][k], Sigma: width}
		scale := factor * weights[k]
		for m, e := range mesh {
			out[m] += scale * peak.Prob(e)
		}
	}
	return out
}
