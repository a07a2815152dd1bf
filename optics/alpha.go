package optics

import (
	"context"
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// hbarC is hbar*c in eV*cm, converting photon energy and extinction
// coefficient into an absorption coefficient in cm^-1.
const hbarC = 1.9732698e-5

// epsPrefactor scales the accumulated matrix elements into the
// imaginary dielectric function; units follow the provider's matrix
// elements.
const epsPrefactor = 4 * math.Pi * math.Pi

// AlphaOptions configures OccDependentAlpha. Zero values fall back to
// the defaults recorded in the Dielectric data.
type AlphaOptions struct {
	// Sigma is the Gaussian smearing of the imaginary dielectric
	// function; <= 0 uses the source calculation's value.
	Sigma float64

	// CShift is the complex shift of the Kramers-Kronig transform;
	// <= 0 uses the source calculation's value.
	CShift float64

	// EnergyMax drops transitions above this energy (eV); <= 0 keeps
	// every transition on the native grid.
	EnergyMax float64

	// Workers sizes the k-point worker pool; <= 0 means one less
	// than the available CPUs.
	Workers int
}

// AlphaResult is the outcome of one occupation-dependent absorption
// evaluation on the dielectric data's native grid.
type AlphaResult struct {
	Grid []float64

	// Absorption, Emission and Both are absorption coefficients in
	// cm^-1: the pure absorption term, the stimulated-emission term,
	// and their net effect (absorption minus emission).
	Absorption []float64
	Emission   []float64
	Both       []float64

	// TDM[i][f][k] is the direction-averaged dipole strength of the
	// i->f transition at k-point k, used downstream as a per-k-point
	// weight when building oscillator-weighted JDOS curves.
	TDM [][][]float64
}

type epsContribution struct {
	abs []float64
	em  []float64
}

// OccDependentAlpha evaluates the occupation-weighted dielectric
// response of one spin channel. occs is [band][k-point] with entries in
// [0,1], aligned with the dielectric data's band and k-point indexing.
//
// For every band pair i < f and k-point, the dipole matrix element
// contributes an absorption term weighted by occ_i*(1-occ_f) and a
// stimulated-emission term weighted by occ_f*(1-occ_i). Each term is
// Gaussian-broadened onto the native energy grid, Kramers-Kronig
// transformed (with the complex shift) into a full dielectric function
// and converted to an absorption coefficient.
//
// The k-point loop runs on a worker pool; per-k contributions are
// merged in ascending k order, so the result does not depend on the
// worker count or completion order.
func OccDependentAlpha(ctx context.Context, d *Dielectric, occs [][]float64, opts AlphaOptions) (*AlphaResult, error) {
	if d == nil {
		return nil, ErrNoData
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if !d.VelocityGauge {
		return nil, ErrVelocityGauge
	}

	sigma := opts.Sigma
	if sigma <= 0 {
		sigma = d.Sigma
	}
	cshift := opts.CShift
	if cshift <= 0 {
		cshift = d.CShift
	}
	emax := opts.EnergyMax
	if emax <= 0 {
		emax = float64(d.Nedos) * d.DeltaE
	}

	nb, nk := d.NumBands(), d.NumKpoints()
	grid := d.EnergyGrid()
	kweights := make([]float64, nk)
	copy(kweights, d.KWeights)
	floats.Scale(1/floats.Sum(kweights), kweights)

	tdm := make([][][]float64, nb)
	for i := range tdm {
		tdm[i] = make([][]float64, nb)
		for f := range tdm[i] {
			tdm[i][f] = make([]float64, nk)
		}
	}

	// Scatter: one job per k-point, each filling its own slot.
	contribs := make([]epsContribution, nk)
	jobs := make(chan int)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ik := range jobs {
				contribs[ik] = kpointEps(d, occs, tdm, ik, grid, kweights[ik], sigma, emax)
			}
		}()
	}

	var cancelled error
feed:
	for ik := 0; ik < nk; ik++ {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case jobs <- ik:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if cancelled != nil {
		return nil, cancelled
	}

	// Gather in ascending k order.
	eps2Abs := make([]float64, d.Nedos)
	eps2Em := make([]float64, d.Nedos)
	for ik := 0; ik < nk; ik++ {
		floats.Add(eps2Abs, contribs[ik].abs)
		floats.Add(eps2Em, contribs[ik].em)
	}
	eps2Both := make([]float64, d.Nedos)
	floats.AddScaledTo(eps2Both, eps2Abs, -1, eps2Em)

	return &AlphaResult{
		Grid:       grid,
		Absorption: absorptionCoeff(grid, eps2Abs, d.DeltaE, cshift),
		Emission:   absorptionCoeff(grid, eps2Em, d.DeltaE, cshift),
		Both:       absorptionCoeff(grid, eps2Both, d.DeltaE, cshift),
		TDM:        tdm,
	}, nil
}

// kpointEps accumulates the imaginary dielectric contributions of one
// k-point. It writes only tdm[.][.][ik], so concurrent calls on
// distinct k-points never share mutable state.
func kpointEps(d *Dielectric, occs [][]float64, tdm [][][]float64, ik int, grid []float64, kweight, sigma, emax float64) epsContribution {
	nb := d.NumBands()
	out := epsContribution{
		abs: make([]float64, len(grid)),
		em:  make([]float64, len(grid)),
	}
	for i := 0; i < nb; i++ {
		for f := i + 1; f < nb; f++ {
			cder := d.Cder[i][f][ik]
			strength := (real(cder[0])*real(cder[0]) + imag(cder[0])*imag(cder[0]) +
				real(cder[1])*real(cder[1]) + imag(cder[1])*imag(cder[1]) +
				real(cder[2])*real(cder[2]) + imag(cder[2])*imag(cder[2])) / 3
			tdm[i][f][ik] = strength

			de := d.Eigs[f][ik] - d.Eigs[i][ik]
			if de <= 0 || de > emax+10*sigma {
				continue
			}
			wAbs := occs[i][ik] * (1 - occs[f][ik])
			wEm := occs[f][ik] * (1 - occs[i][ik])
			if wAbs == 0 && wEm == 0 {
				continue
			}

			// Velocity-gauge matrix elements pick up 1/dE^2 when
			// folded into the dielectric function.
			matel := epsPrefactor * strength / (de * de)
			peak := distuv.Normal{Mu: de, Sigma: sigma}
			for g, e := range grid {
				if math.Abs(e-de) > 10*sigma {
					continue
				}
				broadened := kweight * matel * peak.Prob(e)
				out.abs[g] += wAbs * broadened
				out.em[g] += wEm * broadened
			}
		}
	}
	return out
}

// kramersKronig returns the real dielectric function implied by the
// imaginary part eps2 on a uniform grid of spacing deltae, using the
// complex shift cshift to regularise the principal value.
func kramersKronig(eps2 []float64, deltae, cshift float64) []float64 {
	if cshift <= 0 {
		cshift = 1e-6
	}
	n := len(eps2)
	out := make([]float64, n)
	for iw := 0; iw < n; iw++ {
		w := complex(float64(iw)*deltae, cshift)
		sum := 0.0
		for je := 0; je < n; je++ {
			e := float64(je) * deltae
			sum += real(complex(e*eps2[je]*deltae, 0) / (complex(e*e, 0) - w*w))
		}
		out[iw] = 1 + sum*2/math.Pi
	}
	return out
}

// absorptionCoeff converts an imaginary dielectric function into an
// absorption coefficient in cm^-1: alpha(E) = 2*E*kappa(E)/(hbar*c),
// with kappa the imaginary part of the complex refractive index.
func absorptionCoeff(grid, eps2 []float64, deltae, cshift float64) []float64 {
	eps1 := kramersKronig(eps2, deltae, cshift)
	out := make([]float64, len(grid))
	for g, e := range grid {
		kappa := imag(cmplx.Sqrt(complex(eps1[g], eps2[g])))
		out[g] = 2 * e * kappa / hbarC
	}
	return out
}
