package tas

import (
	"fmt"
	"sort"

	"gotaser/bands"
)

// TransitionKey identifies one band-to-band transition. I and F are
// band indices normalised by subtracting the valence-band-maximum
// index of their spin channel, so 0 and below is valence-like, 1 and
// above conduction-like, and keys stay comparable between systems with
// different absolute band counts. Spin is empty for non-spin-polarised
// systems.
type TransitionKey struct {
	I, F int
	Spin bands.Spin
}

func (k TransitionKey) String() string {
	if k.Spin == "" {
		return fmt.Sprintf("(%d,%d)", k.I, k.F)
	}
	return fmt.Sprintf("(%d,%d,%s)", k.I, k.F, k.Spin)
}

// spinOrder fixes the canonical channel ordering used when merging
// per-transition results and reporting key sets.
func spinOrder(s bands.Spin) int {
	switch s {
	case bands.Down:
		return 2
	case bands.Up:
		return 1
	default:
		return 0
	}
}

// SortKeys orders keys in place by (spin, initial, final), the
// canonical transition ordering.
func SortKeys(keys []TransitionKey) {
	sort.Slice(keys, func(a, b int) bool {
		ka, kb := keys[a], keys[b]
		if spinOrder(ka.Spin) != spinOrder(kb.Spin) {
			return spinOrder(ka.Spin) < spinOrder(kb.Spin)
		}
		if ka.I != kb.I {
			return ka.I < kb.I
		}
		return ka.F < kb.F
	})
}
