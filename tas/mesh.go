// Package tas is the spectrum engine: it turns band energies, k-point
// weights and carrier occupancies into broadened joint-density-of-
// states and absorption spectra, and differences two such spectra into
// a predicted transient or differential absorption signal.
package tas

import (
	"errors"
	"fmt"
	"math"
)

// ErrMesh marks an invalid energy-mesh configuration.
var ErrMesh = errors.New("energy mesh: invalid bounds or step")

// NewMesh builds the ascending evaluation mesh [min, max) with the
// given step: ceil((max-min)/step) points, the first at min, the last
// strictly below max.
func NewMesh(min, max, step float64) ([]float64, error) {
	if step <= 0 || max <= min {
		return nil, fmt.Errorf("%w: [%g, %g) step %g", ErrMesh, min, max, step)
	}
	n := int(math.Ceil((max - min) / step))
	// Rounding in the division can land the last point on max.
	if min+float64(n-1)*step >= max {
		n--
	}
	mesh := make([]float64, n)
	for i := range mesh {
		mesh[i] = min + float64(i)*step
	}
	return mesh, nil
}
