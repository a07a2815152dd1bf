// Package plotter renders the engine's result containers: TAS/DAS
// signals, light/dark JDOS curves and their per-transition
// decompositions, on energy or wavelength axes.
package plotter

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gotaser/tas"
)

// hcEVnm is h*c in eV*nm, converting photon energies to wavelengths.
const hcEVnm = 1239.84193

// EvToLambda converts a photon energy in eV to a wavelength in nm.
func EvToLambda(ev float64) float64 { return hcEVnm / ev }

// LambdaToEv converts a wavelength in nm to a photon energy in eV.
func LambdaToEv(nm float64) float64 { return hcEVnm / nm }

// Axis selects the x-axis units of a plot.
type Axis string

const (
	AxisEnergy     Axis = "energy"
	AxisWavelength Axis = "wavelength"
)

// Options controls a spectrum plot. The zero value plots the full mesh
// on an energy axis with the customary 3% transition cutoff.
type Options struct {
	// Material labels the title; Temp and Conc are appended when the
	// material name is set.
	Material string
	Temp     float64
	Conc     float64

	XAxis Axis

	// XMin and XMax bound the plotted window in the chosen axis
	// units; both zero means the full mesh.
	XMin, XMax float64

	// TransitionCutoff keeps per-transition curves whose largest
	// magnitude within the window reaches this fraction of the
	// strongest transition. <= 0 means 3%.
	TransitionCutoff float64

	// Transitions overrides the cutoff selection with an explicit
	// list when non-nil.
	Transitions []tas.TransitionKey
}

func (o *Options) defaults() {
	if o.XAxis == "" {
		o.XAxis = AxisEnergy
	}
	if o.TransitionCutoff <= 0 {
		o.TransitionCutoff = 0.03
	}
}

// PlotTAS writes the single-system TAS figure: the total signal plus
// the contributing per-transition curves. A JDOS-only result (no
// oscillator strengths on either side) is labelled ΔJDOS, never ΔA.
func PlotTAS(t *tas.TAS, opts Options, path string) error {
	opts.defaults()
	label := "ΔA (a.u.)"
	if t.JDOSOnly {
		label = "ΔJDOS (a.u.)"
	}
	decomp := t.WeightedDecomp
	if decomp == nil {
		decomp = t.Decomp
	}
	return plotCurves(t.Mesh, t.Bandgap, label, titleFor("TAS", opts), opts, path,
		[]namedCurve{{name: "total TAS", ys: t.Total}}, decomp)
}

// PlotDAS writes the two-system DAS figure, new minus reference.
func PlotDAS(d *tas.DAS, opts Options, path string) error {
	opts.defaults()
	label := "ΔA (a.u.)"
	if d.JDOSOnly {
		label = "ΔJDOS (a.u.)"
	}
	decomp := d.WeightedDecomp
	if decomp == nil {
		decomp = d.Decomp
	}
	return plotCurves(d.Mesh, d.BandgapNew, label, titleFor("DAS", opts), opts, path,
		[]namedCurve{{name: "total DAS", ys: d.Total}}, decomp)
}

// PlotJDOS writes the light and dark JDOS totals of a TAS result with
// the decomposed light-state transitions.
func PlotJDOS(t *tas.TAS, opts Options, path string) error {
	opts.defaults()
	return plotCurves(t.Mesh, t.Bandgap, "JDOS (a.u.)", titleFor("JDOS", opts), opts, path,
		[]namedCurve{
			{name: "JDOS (light)", ys: t.JDOSLightTotal},
			{name: "JDOS (dark)", ys: t.JDOSDarkTotal},
		}, t.JDOSLight)
}

// PlotAlpha writes the light and dark absorption coefficients of a TAS
// result. It fails for systems generated without dielectric data
// rather than plotting zeros.
func PlotAlpha(t *tas.TAS, opts Options, path string) error {
	opts.defaults()
	if t.AlphaLight == nil || t.AlphaDark == nil {
		return fmt.Errorf("plot alpha: %w", tas.ErrNoDielectric)
	}
	return plotCurves(t.Mesh, t.Bandgap, "α (cm⁻¹)", titleFor("Absorption", opts), opts, path,
		[]namedCurve{
			{name: "α (light)", ys: t.AlphaLight},
			{name: "α (dark)", ys: t.AlphaDark},
		}, nil)
}

// CutoffTransitions selects the transition keys whose largest
// magnitude between mesh indices lo and hi reaches cutoff times the
// strongest transition's, in canonical key order.
func CutoffTransitions(decomp map[tas.TransitionKey][]float64, cutoff float64, lo, hi int) []tas.TransitionKey {
	maxAbs := make(map[tas.TransitionKey]float64, len(decomp))
	peak := 0.0
	for key, curve := range decomp {
		m := 0.0
		for _, v := range curve[lo:hi] {
			if v < 0 {
				v = -v
			}
			if v > m {
				m = v
			}
		}
		maxAbs[key] = m
		if m > peak {
			peak = m
		}
	}
	var keep []tas.TransitionKey
	for key, m := range maxAbs {
		if m >= peak*cutoff {
			keep = append(keep, key)
		}
	}
	tas.SortKeys(keep)
	return keep
}

type namedCurve struct {
	name string
	ys   []float64
}

func titleFor(kind string, opts Options) string {
	if opts.Material == "" {
		return ""
	}
	title := fmt.Sprintf("%s spectrum of %s", kind, opts.Material)
	if opts.Temp > 0 {
		title += fmt.Sprintf(" at T = %g K", opts.Temp)
	}
	if opts.Conc > 0 {
		title += fmt.Sprintf(", n = %.2g cm⁻³", opts.Conc)
	}
	return title
}

// window resolves the plotted index range on the energy mesh from the
// axis-unit bounds.
func window(mesh []float64, opts Options) (lo, hi int, err error) {
	lo, hi = 0, len(mesh)
	eMin, eMax := opts.XMin, opts.XMax
	if opts.XAxis == AxisWavelength {
		// Wavelength bounds map to energy bounds in reverse.
		if opts.XMax > 0 {
			eMin = LambdaToEv(opts.XMax)
		} else {
			eMin = 0
		}
		if opts.XMin > 0 {
			eMax = LambdaToEv(opts.XMin)
		} else {
			eMax = 0
		}
	}
	if eMin > 0 {
		if eMin > mesh[len(mesh)-1] {
			return 0, 0, fmt.Errorf("plot window: lower bound beyond the energy mesh maximum %g eV", mesh[len(mesh)-1])
		}
		for lo < len(mesh) && mesh[lo] < eMin {
			lo++
		}
	}
	if eMax > 0 {
		if eMax < mesh[0] {
			return 0, 0, fmt.Errorf("plot window: upper bound below the energy mesh minimum %g eV", mesh[0])
		}
		for hi > lo && mesh[hi-1] > eMax {
			hi--
		}
	}
	if hi-lo < 2 {
		return 0, 0, fmt.Errorf("plot window: fewer than two mesh points between the bounds")
	}
	return lo, hi, nil
}

func plotCurves(mesh []float64, bandgap float64, ylabel, title string, opts Options, path string, totals []namedCurve, decomp map[tas.TransitionKey][]float64) error {
	lo, hi, err := window(mesh, opts)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = ylabel
	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	if opts.XAxis == AxisWavelength {
		p.X.Label.Text = "Wavelength (nm)"
	} else {
		p.X.Label.Text = "Energy (eV)"
	}

	xs := make([]float64, hi-lo)
	for i := range xs {
		if opts.XAxis == AxisWavelength {
			xs[i] = EvToLambda(mesh[lo+i])
		} else {
			xs[i] = mesh[lo+i]
		}
	}

	for n, total := range totals {
		line, err := plotter.NewLine(xyPoints(xs, total.ys[lo:hi]))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(3.5)
		line.LineStyle.Color = totalPalette[n%len(totalPalette)]
		p.Add(line)
		p.Legend.Add(total.name, line)
	}

	if decomp != nil {
		keys := opts.Transitions
		if keys == nil {
			keys = CutoffTransitions(decomp, opts.TransitionCutoff, lo, hi)
		}
		for n, key := range keys {
			curve, ok := decomp[key]
			if !ok {
				return fmt.Errorf("plot: unknown transition %s", key)
			}
			line, err := plotter.NewLine(xyPoints(xs, curve[lo:hi]))
			if err != nil {
				return err
			}
			line.LineStyle.Width = vg.Points(2)
			line.LineStyle.Color = decompPalette[n%len(decompPalette)]
			p.Add(line)
			p.Legend.Add(key.String(), line)
		}
	}

	// Band-gap marker, dashed, in axis units.
	if bandgap > 0 {
		bg := bandgap
		if opts.XAxis == AxisWavelength {
			bg = EvToLambda(bandgap)
		}
		gapLine := plotter.XYs{{X: bg, Y: p.Y.Min}, {X: bg, Y: p.Y.Max}}
		line, err := plotter.NewLine(gapLine)
		if err != nil {
			return err
		}
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(line)
		p.Legend.Add("bandgap", line)
	}

	p.Legend.Top = true
	return p.Save(12*vg.Inch, 8*vg.Inch, path)
}

func xyPoints(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

var totalPalette = []color.Color{
	color.RGBA{A: 255},                   // black
	color.RGBA{B: 200, A: 255},           // blue
	color.RGBA{R: 180, G: 100, A: 255},   // brown
	color.RGBA{R: 90, G: 90, B: 90, A: 255},
}

var decompPalette = []color.Color{
	color.RGBA{R: 220, A: 255},
	color.RGBA{G: 150, A: 255},
	color.RGBA{R: 230, G: 140, A: 255},
	color.RGBA{R: 140, B: 220, A: 255},
	color.RGBA{G: 160, B: 180, A: 255},
	color.RGBA{R: 200, G: 60, B: 120, A: 255},
}
