// Package optics computes occupation-dependent dielectric-function and
// absorption-coefficient contributions from transition-dipole data.
// The Dielectric container mirrors what a linear-optics calculation
// exports: band eigenvalues, orbital-derivative matrix elements per
// band pair and k-point, and the uniform energy grid the dielectric
// function was evaluated on.
package optics

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when oscillator-strength output is
	// requested for a system that carries no transition-dipole data.
	ErrNoData = errors.New("occupation-dependent alpha: no dielectric data supplied, unsupported for this system")

	// ErrVelocityGauge is returned when the upstream calculation did
	// not export full band-band orbital derivatives, so oscillator
	// strengths cannot be formed from the stored matrix elements.
	ErrVelocityGauge = errors.New("occupation-dependent alpha: the upstream optics calculation was run without " +
		"velocity-gauge orbital derivatives; rerun it with the linear-response velocity flag enabled " +
		"(restarting from the previous wavefunctions needs only a couple of electronic steps)")
)

// Dielectric bundles the transition-dipole data of one system.
//
// The energy grid is uniform with origin 0, spacing DeltaE and Nedos
// points. Cder is indexed [initial band][final band][k-point][cartesian
// direction] and uses the same band and k-point indexing as the band
// structure the data came from. Eigs is [band][k-point] in eV.
type Dielectric struct {
	Nedos  int
	DeltaE float64

	// CShift is the default complex broadening shift used in the
	// Kramers-Kronig transform; Sigma the default Gaussian smearing
	// of the imaginary part. Both come from the source calculation.
	CShift float64
	Sigma  float64

	Efermi   float64
	Eigs     [][]float64
	Cder     [][][][3]complex128
	KWeights []float64

	// VelocityGauge records whether the source calculation exported
	// the full band-band orbital derivatives (LVEL-style flag).
	VelocityGauge bool
}

// NumBands returns the band count of the dipole data.
func (d *Dielectric) NumBands() int { return len(d.Eigs) }

// NumKpoints returns the k-point count of the dipole data.
func (d *Dielectric) NumKpoints() int {
	if len(d.Eigs) == 0 {
		return 0
	}
	return len(d.Eigs[0])
}

// EnergyGrid returns the native uniform grid: Nedos points from 0 with
// spacing DeltaE, endpoint excluded.
func (d *Dielectric) EnergyGrid() []float64 {
	grid := make([]float64, d.Nedos)
	for i := range grid {
		grid[i] = float64(i) * d.DeltaE
	}
	return grid
}

// Validate checks grid and tensor shapes.
func (d *Dielectric) Validate() error {
	if d.Nedos < 2 || d.DeltaE <= 0 {
		return fmt.Errorf("dielectric: invalid grid (nedos=%d, deltae=%g)", d.Nedos, d.DeltaE)
	}
	nb, nk := d.NumBands(), d.NumKpoints()
	if nb == 0 || nk == 0 {
		return errors.New("dielectric: empty eigenvalue array")
	}
	if len(d.Cder) != nb {
		return fmt.Errorf("dielectric: cder has %d initial bands, want %d", len(d.Cder), nb)
	}
	for i := range d.Cder {
		if len(d.Cder[i]) != nb {
			return fmt.Errorf("dielectric: cder[%d] has %d final bands, want %d", i, len(d.Cder[i]), nb)
		}
		for f := range d.Cder[i] {
			if len(d.Cder[i][f]) != nk {
				return fmt.Errorf("dielectric: cder[%d][%d] has %d k-points, want %d", i, f, len(d.Cder[i][f]), nk)
			}
		}
	}
	if len(d.KWeights) != nk {
		return fmt.Errorf("dielectric: %d k-weights for %d k-points", len(d.KWeights), nk)
	}
	return nil
}
