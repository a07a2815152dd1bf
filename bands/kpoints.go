package bands

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// KPointWeights are the degeneracy weights of the k-point mesh, one
// entry per k-point, positionally aligned with the k axis of the band
// structure they belong to.
type KPointWeights []float64

// Validate checks alignment with a k axis of length nk and rejects
// negative weights.
func (w KPointWeights) Validate(nk int) error {
	if len(w) != nk {
		return fmt.Errorf("kpoint weights: %d entries for %d k-points", len(w), nk)
	}
	for i, v := range w {
		if v < 0 {
			return fmt.Errorf("kpoint weights: negative weight %g at k-point %d", v, i)
		}
	}
	if floats.Sum(w) == 0 {
		return errors.New("kpoint weights: all weights are zero")
	}
	return nil
}

// Normalized returns a copy scaled to unit sum.
func (w KPointWeights) Normalized() KPointWeights {
	out := make(KPointWeights, len(w))
	copy(out, w)
	floats.Scale(1/floats.Sum(out), out)
	return out
}
