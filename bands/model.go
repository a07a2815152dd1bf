package bands

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ParabolicSystem builds an in-memory toy direct-gap semiconductor:
// nv valence and nc conduction bands, parabolic in a scalar k sampled
// uniformly on [-0.5, 0.5), with the gap centred on E = 0 and the
// Fermi level at 0. Useful for demos and tests; real systems come from
// an external electronic-structure provider.
func ParabolicSystem(gap, curvature float64, nv, nc, nk int) (*BandStructure, KPointWeights) {
	energies := make([][]float64, 0, nv+nc)
	for b := nv - 1; b >= 0; b-- {
		row := make([]float64, nk)
		for ik := 0; ik < nk; ik++ {
			k := -0.5 + float64(ik)/float64(nk)
			row[ik] = -gap/2 - 0.4*float64(b) - curvature*k*k
		}
		energies = append(energies, row)
	}
	for b := 0; b < nc; b++ {
		row := make([]float64, nk)
		for ik := 0; ik < nk; ik++ {
			k := -0.5 + float64(ik)/float64(nk)
			row[ik] = gap/2 + 0.4*float64(b) + curvature*k*k
		}
		energies = append(energies, row)
	}

	weights := make(KPointWeights, nk)
	for i := range weights {
		weights[i] = 1 / float64(nk)
	}

	bs := &BandStructure{
		Bands:  map[Spin][][]float64{Up: energies},
		Efermi: 0,
	}
	return bs, weights
}

// DosFromBands smears the eigenvalue spectrum of bs into a FermiDos on
// a uniform grid of npts energies, Gaussian width sigma, with the
// state density scaled by scale (states per unit volume contributed by
// each eigenvalue). Degeneracy-weighting uses the supplied k-point
// weights.
func DosFromBands(bs *BandStructure, weights KPointWeights, sigma, scale float64, npts int) *FermiDos {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, spin := range bs.Spins() {
		for _, row := range bs.Bands[spin] {
			for _, e := range row {
				lo = math.Min(lo, e)
				hi = math.Max(hi, e)
			}
		}
	}
	lo -= 5 * sigma
	hi += 5 * sigma

	energies := make([]float64, npts)
	densities := make([]float64, npts)
	step := (hi - lo) / float64(npts-1)
	for i := range energies {
		energies[i] = lo + float64(i)*step
	}
	for _, spin := range bs.Spins() {
		for _, row := range bs.Bands[spin] {
			for ik, e := range row {
				peak := distuv.Normal{Mu: e, Sigma: sigma}
				for i, x := range energies {
					densities[i] += scale * weights[ik] * peak.Prob(x)
				}
			}
		}
	}
	return &FermiDos{Energies: energies, Densities: densities, Efermi: bs.Efermi}
}
