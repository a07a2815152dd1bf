package tas

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"gotaser/bands"
	"gotaser/optics"
)

// ErrMetalTemp marks a metallic system generated at a non-positive
// temperature, where the Fermi-Dirac occupations are undefined.
var ErrMetalTemp = errors.New("generate: metallic system requires a positive temperature")

// Generator produces spectra for one system: a band structure with its
// k-point weights, optionally a density of states (needed only for
// carrier-injected occupancies) and optionally dielectric data (needed
// only for oscillator-weighted output).
type Generator struct {
	bs       *bands.BandStructure
	kweights bands.KPointWeights
	dos      *bands.FermiDos
	dfc      *optics.Dielectric
}

// NewGenerator validates the inputs and their mutual alignment. dos
// and dfc may be nil; the corresponding outputs are then unavailable.
func NewGenerator(bs *bands.BandStructure, kweights bands.KPointWeights, dos *bands.FermiDos, dfc *optics.Dielectric) (*Generator, error) {
	if err := bs.Validate(); err != nil {
		return nil, err
	}
	if err := kweights.Validate(bs.NumKpoints()); err != nil {
		return nil, err
	}
	if dos != nil {
		if err := dos.Validate(); err != nil {
			return nil, err
		}
	}
	if dfc != nil {
		if err := dfc.Validate(); err != nil {
			return nil, err
		}
		if dfc.NumBands() != bs.NumBands() || dfc.NumKpoints() != bs.NumKpoints() {
			return nil, fmt.Errorf("generator: dielectric data shaped %dx%d bands/k-points, band structure %dx%d",
				dfc.NumBands(), dfc.NumKpoints(), bs.NumBands(), bs.NumKpoints())
		}
	}
	return &Generator{bs: bs, kweights: kweights, dos: dos, dfc: dfc}, nil
}

// BandStructure returns the generator's band structure.
func (g *Generator) BandStructure() *bands.BandStructure { return g.bs }

// HasDielectric reports whether oscillator-weighted output is
// available for this system.
func (g *Generator) HasDielectric() bool { return g.dfc != nil }

// GenerateConfig configures one spectrum generation. Zero values take
// the customary defaults: mesh [0, 5) eV with 0.01 eV step, 0.1 eV
// Gaussian width, dielectric-data complex shift, one worker fewer than
// the CPU count.
type GenerateConfig struct {
	// Temp in K sets the Fermi-Dirac width of computed occupancies.
	Temp float64

	EnergyMin     float64
	EnergyMax     float64
	Step          float64
	GaussianWidth float64

	// CShift overrides the Kramers-Kronig complex shift recorded in
	// the dielectric data; <= 0 keeps the recorded value.
	CShift float64

	// Occs bypasses the occupation model entirely when non-nil.
	Occs Occupancies

	// Workers sizes the transition worker pool.
	Workers int
}

func (cfg *GenerateConfig) defaults() {
	if cfg.EnergyMin == 0 && cfg.EnergyMax == 0 {
		cfg.EnergyMax = 5
	}
	if cfg.Step <= 0 {
		cfg.Step = 0.01
	}
	if cfg.GaussianWidth <= 0 {
		cfg.GaussianWidth = 0.1
	}
}

// pairJob is one (spin, i, f) transition; jobs are enumerated and
// merged in this canonical order so totals never depend on worker
// scheduling.
type pairJob struct {
	spin bands.Spin
	i, f int
	key  TransitionKey
}

type pairResult struct {
	jdos     []float64
	weighted []float64
}

// Generate runs the full aggregation for one occupation state:
// occupation model (unless overridden), broadened JDOS for every band
// pair with f above i, oscillator weighting and absorption coefficient
// when dielectric data is present.
func (g *Generator) Generate(ctx context.Context, cfg GenerateConfig) (*Spectrum, error) {
	cfg.defaults()
	mesh, err := NewMesh(cfg.EnergyMin, cfg.EnergyMax, cfg.Step)
	if err != nil {
		return nil, err
	}
	if g.bs.Metallic && cfg.Temp <= 0 {
		return nil, ErrMetalTemp
	}

	occs := cfg.Occs
	if occs == nil {
		occs = Occupations(g.bs, g.bs.GapCenter(), cfg.Temp)
	}

	// Oscillator strengths first: the per-k dipole weights feed the
	// weighted JDOS evaluation below.
	var alphaGrid []float64
	var grid []float64
	tdm := make(map[bands.Spin][][][]float64)
	if g.dfc != nil {
		for _, spin := range g.bs.Spins() {
			res, err := optics.OccDependentAlpha(ctx, g.dfc, occs[spin], optics.AlphaOptions{
				Sigma:     cfg.GaussianWidth,
				CShift:    cfg.CShift,
				EnergyMax: cfg.EnergyMax,
				Workers:   cfg.Workers,
			})
			if err != nil {
				return nil, err
			}
			if alphaGrid == nil {
				grid = res.Grid
				alphaGrid = make([]float64, len(res.Both))
			}
			floats.Add(alphaGrid, res.Both)
			tdm[spin] = res.TDM
		}
	}

	jobs := g.enumerate()
	results := make([]pairResult, len(jobs))
	if err := g.runPairs(ctx, jobs, results, occs, mesh, tdm, cfg.GaussianWidth, cfg.Workers); err != nil {
		return nil, err
	}

	// Gather in canonical (spin, i, f) order.
	sp := &Spectrum{
		Mesh:      mesh,
		JDOSTotal: make([]float64, len(mesh)),
		JDOS:      make(map[TransitionKey][]float64, len(jobs)),
		Bandgap:   math.Round(g.bs.BandGap()*100) / 100,
		Temp:      cfg.Temp,
	}
	if g.dfc != nil {
		sp.WeightedJDOS = make(map[TransitionKey][]float64, len(jobs))
	}
	for n, job := range jobs {
		floats.Add(sp.JDOSTotal, results[n].jdos)
		sp.JDOS[job.key] = results[n].jdos
		if results[n].weighted != nil {
			sp.WeightedJDOS[job.key] = results[n].weighted
		}
	}

	// The absorption coefficient lives on the dielectric data's
	// native grid; interpolate it onto the JDOS mesh.
	if alphaGrid != nil {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(grid, alphaGrid); err != nil {
			return nil, fmt.Errorf("generate: interpolating alpha: %w", err)
		}
		sp.Alpha = make([]float64, len(mesh))
		for m, e := range mesh {
			sp.Alpha[m] = pl.Predict(e)
		}
	}
	return sp, nil
}

// enumerate lists every transition job in canonical order: spin
// channels Up then Down, f strictly above i so no pair appears twice
// and no self-transition appears at all.
func (g *Generator) enumerate() []pairJob {
	nb := g.bs.NumBands()
	polarized := g.bs.SpinPolarized()
	var jobs []pairJob
	for _, spin := range g.bs.Spins() {
		vbm := g.bs.VBMIndex(spin)
		for i := 0; i < nb; i++ {
			for f := i + 1; f < nb; f++ {
				key := TransitionKey{I: i - vbm, F: f - vbm}
				if polarized {
					key.Spin = spin
				}
				jobs = append(jobs, pairJob{spin: spin, i: i, f: f, key: key})
			}
		}
	}
	return jobs
}

// runPairs evaluates every transition job on a worker pool. Workers
// write only their own result slot; inputs are read-only, so the
// parallel phase needs no locks.
func (g *Generator) runPairs(ctx context.Context, jobs []pairJob, results []pairResult, occs Occupancies, mesh []float64, tdm map[bands.Spin][][][]float64, width float64, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
	}
	if workers < 1 {
		workers = 1
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range idx {
				job := jobs[n]
				spinOccs := occs[job.spin]
				results[n].jdos = JDOS(g.bs, job.f, job.i, spinOccs, mesh, g.kweights, width, job.spin)
				if spinTDM, ok := tdm[job.spin]; ok {
					weights := make([]float64, len(g.kweights))
					for k := range weights {
						weights[k] = g.kweights[k] * spinTDM[job.i][job.f][k]
					}
					results[n].weighted = JDOS(g.bs, job.f, job.i, spinOccs, mesh, weights, width, job.spin)
				}
			}
		}()
	}

	var cancelled error
feed:
	for n := range jobs {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case idx <- n:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(idx)
	wg.Wait()
	return cancelled
}
