// Package bands holds the electronic-structure inputs consumed by the
// spectrum engine: band energies per spin channel, k-point weights and
// a Fermi-style density of states. Parsing of calculation output files
// is a caller concern; everything here is an already-loaded, in-memory
// object.
package bands

import (
	"errors"
	"fmt"
	"math"
)

// Spin labels a spin channel. The empty value is used as the channel
// label for non-spin-polarized systems.
type Spin string

const (
	Up   Spin = "up"
	Down Spin = "down"
)

// BandStructure is a read-only view of a band-structure calculation.
// Bands maps each spin channel to energies indexed [band][kpoint], in
// eV, with band indices energy-ascending at every k-point (the usual
// electronic-structure convention). The same indexing must be used by
// any occupancy or dipole arrays derived from it.
type BandStructure struct {
	Bands  map[Spin][][]float64
	Efermi float64

	// Metallic marks a gapless system: occupancies are then smeared
	// with a Fermi-Dirac distribution about Efermi instead of the
	// zero-temperature step about the gap centre.
	Metallic bool
}

// Spins returns the spin channels present, Up before Down, so that all
// iteration over channels happens in a fixed order.
func (bs *BandStructure) Spins() []Spin {
	spins := make([]Spin, 0, 2)
	if _, ok := bs.Bands[Up]; ok {
		spins = append(spins, Up)
	}
	if _, ok := bs.Bands[Down]; ok {
		spins = append(spins, Down)
	}
	return spins
}

// SpinPolarized reports whether both spin channels are present.
func (bs *BandStructure) SpinPolarized() bool {
	return len(bs.Bands) > 1
}

// NumBands returns the band count of the first spin channel.
func (bs *BandStructure) NumBands() int {
	for _, s := range bs.Spins() {
		return len(bs.Bands[s])
	}
	return 0
}

// NumKpoints returns the k-point count of the first spin channel.
func (bs *BandStructure) NumKpoints() int {
	for _, s := range bs.Spins() {
		if len(bs.Bands[s]) > 0 {
			return len(bs.Bands[s][0])
		}
	}
	return 0
}

// Validate checks the dimensional invariants: at least one channel,
// rectangular energy arrays and equal shapes across channels.
func (bs *BandStructure) Validate() error {
	if len(bs.Bands) == 0 {
		return errors.New("band structure: no spin channels")
	}
	nb, nk := bs.NumBands(), bs.NumKpoints()
	if nb == 0 || nk == 0 {
		return errors.New("band structure: empty energy array")
	}
	for _, spin := range bs.Spins() {
		energies := bs.Bands[spin]
		if len(energies) != nb {
			return fmt.Errorf("band structure: spin %q has %d bands, want %d", spin, len(energies), nb)
		}
		for b, row := range energies {
			if len(row) != nk {
				return fmt.Errorf("band structure: spin %q band %d has %d k-points, want %d", spin, b, len(row), nk)
			}
		}
	}
	return nil
}

// VBMIndex returns the band index holding the valence band maximum for
// the given spin: the band whose maximum energy is the largest energy
// not above the Fermi level.
func (bs *BandStructure) VBMIndex(spin Spin) int {
	idx := 0
	best := math.Inf(-1)
	for b, row := range bs.Bands[spin] {
		for _, e := range row {
			if e <= bs.Efermi && e > best {
				best = e
				idx = b
			}
		}
	}
	return idx
}

// CBMIndex returns the band index holding the conduction band minimum
// for the given spin: the band whose minimum energy is the smallest
// energy above the Fermi level.
func (bs *BandStructure) CBMIndex(spin Spin) int {
	idx := bs.NumBands() - 1
	best := math.Inf(1)
	for b, row := range bs.Bands[spin] {
		for _, e := range row {
			if e > bs.Efermi && e < best {
				best = e
				idx = b
			}
		}
	}
	return idx
}

// VBM returns the valence band maximum energy across all spin channels.
func (bs *BandStructure) VBM() float64 {
	best := math.Inf(-1)
	for _, spin := range bs.Spins() {
		for _, row := range bs.Bands[spin] {
			for _, e := range row {
				if e <= bs.Efermi && e > best {
					best = e
				}
			}
		}
	}
	return best
}

// CBM returns the conduction band minimum energy across all spin
// channels.
func (bs *BandStructure) CBM() float64 {
	best := math.Inf(1)
	for _, spin := range bs.Spins() {
		for _, row := range bs.Bands[spin] {
			for _, e := range row {
				if e > bs.Efermi && e < best {
					best = e
				}
			}
		}
	}
	return best
}

// BandGap returns the fundamental gap in eV, zero for metals.
func (bs *BandStructure) BandGap() float64 {
	if bs.Metallic {
		return 0
	}
	gap := bs.CBM() - bs.VBM()
	if gap < 0 {
		return 0
	}
	return gap
}

// GapCenter returns the reference energy for the occupation model: the
// Fermi level for metals, the middle of the gap otherwise.
func (bs *BandStructure) GapCenter() float64 {
	if bs.Metallic {
		return bs.Efermi
	}
	return (bs.CBM() + bs.VBM()) / 2
}
