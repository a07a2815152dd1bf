package tas

import "gotaser/bands"

// Occupancies maps each spin channel to per-[band][k-point] filling
// probabilities in [0,1], shaped exactly like the band structure's
// energy arrays.
type Occupancies map[bands.Spin][][]float64

// Occupations computes equilibrium occupancies about the reference
// energy ref (the gap centre, or the Fermi level for metals).
//
// Non-metals get the zero-temperature step: 1 below ref, 0 above.
// Metals get the Fermi-Dirac distribution on both sides; temp must
// then be positive, since the distribution divides by it. Both masks
// use strict inequalities, so an energy exactly at ref keeps the
// zero-initialised occupancy.
func Occupations(bs *bands.BandStructure, ref, temp float64) Occupancies {
	occs := make(Occupancies, len(bs.Bands))
	for _, spin := range bs.Spins() {
		energies := bs.Bands[spin]
		spinOccs := make([][]float64, len(energies))
		for b, row := range energies {
			spinOccs[b] = make([]float64, len(row))
			for k, e := range row {
				switch {
				case e < ref:
					if bs.Metallic {
						spinOccs[b][k] = bands.F0(e, ref, temp)
					} else {
						spinOccs[b][k] = 1
					}
				case e > ref:
					if bs.Metallic {
						spinOccs[b][k] = bands.F0(e, ref, temp)
					}
					// Non-metal conduction states stay empty.
				}
			}
		}
		occs[spin] = spinOccs
	}
	return occs
}
