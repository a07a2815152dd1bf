package tas

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/floats"

	"gotaser/bands"
)

// ErrNoDos is returned when carrier-injected occupancies are requested
// from a generator built without a density of states.
var ErrNoDos = errors.New("generate tas: carrier-injected occupancies require a density of states")

// TAS is the single-system transient-absorption result: the same
// material generated under dark (equilibrium) and light (carrier-
// injected) occupations, differenced. Built once per GenerateTAS call
// and not mutated afterwards.
type TAS struct {
	// Total is the predicted TAS signal: alpha(light)-alpha(dark)
	// when the system carries dielectric data, otherwise the pure
	// JDOS change, flagged by JDOSOnly.
	Total    []float64
	JDOSOnly bool

	JDOSLightTotal []float64
	JDOSLight      map[TransitionKey][]float64
	JDOSDarkTotal  []float64
	JDOSDark       map[TransitionKey][]float64

	// Decomp is the per-transition light-minus-dark JDOS change.
	Decomp map[TransitionKey][]float64

	// Oscillator-weighted output; nil without dielectric data.
	AlphaLight     []float64
	AlphaDark      []float64
	WeightedLight  map[TransitionKey][]float64
	WeightedDark   map[TransitionKey][]float64
	WeightedDecomp map[TransitionKey][]float64

	Mesh    []float64
	Bandgap float64
	Temp    float64
	Conc    float64
}

// TASConfig configures a single-system TAS generation.
type TASConfig struct {
	GenerateConfig

	// Conc is the injected carrier concentration (electrons = holes,
	// in the FermiDos' concentration units). Ignored when LightOccs
	// is supplied.
	Conc float64

	// LightOccs and DarkOccs bypass the occupation models when
	// non-nil; the injected-carrier policy is then entirely the
	// caller's.
	LightOccs Occupancies
	DarkOccs  Occupancies
}

// GenerateTAS generates the dark and light spectra and differences
// them. Dark occupancies follow the equilibrium model; light
// occupancies place electrons and holes at their quasi-Fermi levels
// for the injected concentration, computed from the density of states.
func (g *Generator) GenerateTAS(ctx context.Context, cfg TASConfig) (*TAS, error) {
	cfg.GenerateConfig.defaults()

	lightOccs := cfg.LightOccs
	if lightOccs == nil {
		var err error
		lightOccs, err = g.lightOccupancies(cfg.Conc, cfg.Temp)
		if err != nil {
			return nil, err
		}
	}

	darkCfg := cfg.GenerateConfig
	darkCfg.Occs = cfg.DarkOccs
	dark, err := g.Generate(ctx, darkCfg)
	if err != nil {
		return nil, err
	}

	lightCfg := cfg.GenerateConfig
	lightCfg.Occs = lightOccs
	light, err := g.Generate(ctx, lightCfg)
	if err != nil {
		return nil, err
	}

	t := &TAS{
		JDOSLightTotal: light.JDOSTotal,
		JDOSLight:      light.JDOS,
		JDOSDarkTotal:  dark.JDOSTotal,
		JDOSDark:       dark.JDOS,
		Decomp:         diffDecomp(light.JDOS, dark.JDOS),
		AlphaLight:     light.Alpha,
		AlphaDark:      dark.Alpha,
		WeightedLight:  light.WeightedJDOS,
		WeightedDark:   dark.WeightedJDOS,
		Mesh:           light.Mesh,
		Bandgap:        light.Bandgap,
		Temp:           cfg.Temp,
		Conc:           cfg.Conc,
	}
	if light.HasAlpha() && dark.HasAlpha() {
		t.Total = subtract(light.Alpha, dark.Alpha)
		t.WeightedDecomp = diffDecomp(light.WeightedJDOS, dark.WeightedJDOS)
	} else {
		t.Total = subtract(light.JDOSTotal, dark.JDOSTotal)
		t.JDOSOnly = true
	}
	return t, nil
}

// lightOccupancies fills states against the electron and hole
// quasi-Fermi levels implied by the injected carrier concentration:
// valence-like states (below the gap centre) against the hole level,
// conduction-like states against the electron level.
func (g *Generator) lightOccupancies(conc, temp float64) (Occupancies, error) {
	if g.dos == nil {
		return nil, ErrNoDos
	}
	fermiE, err := g.dos.GetFermi(-conc, temp)
	if err != nil {
		return nil, err
	}
	fermiH, err := g.dos.GetFermi(conc, temp)
	if err != nil {
		return nil, err
	}
	centre := g.bs.GapCenter()
	occs := make(Occupancies, len(g.bs.Bands))
	for _, spin := range g.bs.Spins() {
		energies := g.bs.Bands[spin]
		spinOccs := make([][]float64, len(energies))
		for b, row := range energies {
			spinOccs[b] = make([]float64, len(row))
			for k, e := range row {
				switch {
				case e < centre:
					spinOccs[b][k] = bands.F0(e, fermiH, temp)
				case e > centre:
					spinOccs[b][k] = bands.F0(e, fermiE, temp)
				}
			}
		}
		occs[spin] = spinOccs
	}
	return occs, nil
}

func subtract(a, b []float64) []float64 {
	out := make([]float64, len(a))
	floats.SubTo(out, a, b)
	return out
}

// diffDecomp differences two per-transition maps key by key. Keys
// present on only one side contribute nothing; for the single-system
// path both sides share the same key set by construction.
func diffDecomp(a, b map[TransitionKey][]float64) map[TransitionKey][]float64 {
	out := make(map[TransitionKey][]float64, len(a))
	for key, curve := range a {
		other, ok := b[key]
		if !ok {
			continue
		}
		out[key] = subtract(curve, other)
	}
	return out
}
