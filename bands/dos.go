package bands

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
)

// KB is the Boltzmann constant in eV/K.
const KB = 8.617333262e-5

// F0 is the Fermi-Dirac occupation of a state at energy e for Fermi
// level fermi and temperature temp (K). temp must be positive: the
// exponent divides by KB*temp.
func F0(e, fermi, temp float64) float64 {
	return 1 / (math.Exp((e-fermi)/(KB*temp)) + 1)
}

// FermiDos is a total density of states on an ascending energy grid,
// used to translate carrier concentrations into quasi-Fermi levels.
// Densities are in states/(eV cm^3) so that integrated carrier counts
// come out in cm^-3; any consistent unit system works as long as the
// caller's concentrations use the same one.
type FermiDos struct {
	Energies  []float64
	Densities []float64

	// Efermi splits the grid into valence-like (below) and
	// conduction-like (above) states when counting holes and
	// electrons.
	Efermi float64
}

// Validate checks grid shape and ordering.
func (d *FermiDos) Validate() error {
	if len(d.Energies) < 2 || len(d.Energies) != len(d.Densities) {
		return fmt.Errorf("fermi dos: grid of %d energies and %d densities", len(d.Energies), len(d.Densities))
	}
	for i := 1; i < len(d.Energies); i++ {
		if d.Energies[i] <= d.Energies[i-1] {
			return fmt.Errorf("fermi dos: energy grid not ascending at index %d", i)
		}
	}
	return nil
}

// Doping returns the net doping p - n (holes minus electrons) implied
// by Fermi level ef at temperature temp. Holes are counted over states
// below Efermi, electrons over states above it.
func (d *FermiDos) Doping(ef, temp float64) float64 {
	p := make([]float64, len(d.Energies))
	n := make([]float64, len(d.Energies))
	for i, e := range d.Energies {
		occ := F0(e, ef, temp)
		if e <= d.Efermi {
			p[i] = d.Densities[i] * (1 - occ)
		} else {
			n[i] = d.Densities[i] * occ
		}
	}
	return integrate.Trapezoidal(d.Energies, p) - integrate.Trapezoidal(d.Energies, n)
}

// GetFermi solves for the Fermi level that produces the requested net
// doping concentration (positive for holes, negative for electrons) at
// temperature temp. Doping is monotone decreasing in the Fermi level,
// so a bisection over the DOS energy range suffices.
func (d *FermiDos) GetFermi(concentration, temp float64) (float64, error) {
	if temp <= 0 {
		return 0, fmt.Errorf("fermi dos: non-positive temperature %g K", temp)
	}
	lo, hi := d.Energies[0], d.Energies[len(d.Energies)-1]
	dlo, dhi := d.Doping(lo, temp), d.Doping(hi, temp)
	if concentration > dlo || concentration < dhi {
		return 0, fmt.Errorf("fermi dos: concentration %g cm^-3 outside attainable range [%g, %g]", concentration, dhi, dlo)
	}
	for iter := 0; iter < 100; iter++ {
		mid := (lo + hi) / 2
		if d.Doping(mid, temp) > concentration {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}
