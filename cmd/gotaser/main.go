// Command gotaser generates a predicted TAS spectrum for a toy
// parabolic-band semiconductor and renders it. It exists to exercise
// the full pipeline end to end; real systems are driven through the
// library with provider-loaded band structures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gotaser/bands"
	"gotaser/plotter"
	"gotaser/tas"
)

func main() {
	gap := flag.Float64("gap", 2.0, "band gap of the toy system (eV)")
	curvature := flag.Float64("curvature", 3.0, "band curvature of the toy system")
	nv := flag.Int("nv", 3, "valence bands")
	nc := flag.Int("nc", 3, "conduction bands")
	nk := flag.Int("nk", 40, "k-points")
	temp := flag.Float64("temp", 300, "temperature (K)")
	conc := flag.Float64("conc", 1e18, "injected carrier concentration (cm^-3)")
	emax := flag.Float64("emax", 5, "energy mesh maximum (eV)")
	step := flag.Float64("step", 0.01, "energy mesh step (eV)")
	width := flag.Float64("width", 0.1, "gaussian broadening width (eV)")
	workers := flag.Int("workers", 0, "parallel workers (0 = CPUs-1)")
	material := flag.String("material", "toy semiconductor", "material label for plot titles")
	wavelength := flag.Bool("wavelength", false, "plot against wavelength instead of energy")
	preview := flag.Bool("preview", false, "open a gnuplot preview of the TAS total")
	out := flag.String("out", ".", "output directory for plots")
	flag.Parse()

	bs, weights := bands.ParabolicSystem(*gap, *curvature, *nv, *nc, *nk)
	dos := bands.DosFromBands(bs, weights, 0.05, 1e21, 2000)

	gen, err := tas.NewGenerator(bs, weights, dos, nil)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	result, err := gen.GenerateTAS(context.Background(), tas.TASConfig{
		GenerateConfig: tas.GenerateConfig{
			Temp:          *temp,
			EnergyMax:     *emax,
			Step:          *step,
			GaussianWidth: *width,
			Workers:       *workers,
		},
		Conc: *conc,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("%s: gap %.2f eV, T = %g K, n = %.2g cm^-3\n", *material, result.Bandgap, result.Temp, result.Conc)
	fmt.Printf("mesh: %d points, [%.2f, %.2f] eV\n", len(result.Mesh), result.Mesh[0], result.Mesh[len(result.Mesh)-1])
	if result.JDOSOnly {
		fmt.Println("no dielectric data: TAS total is the JDOS change (no oscillator strengths)")
	}
	keys := plotter.CutoffTransitions(result.Decomp, 0.03, 0, len(result.Mesh))
	fmt.Printf("transitions above cutoff: %d\n", len(keys))
	for _, key := range keys {
		fmt.Printf("  %s\n", key)
	}

	opts := plotter.Options{
		Material: *material,
		Temp:     *temp,
		Conc:     *conc,
	}
	if *wavelength {
		opts.XAxis = plotter.AxisWavelength
	}

	if err := plotter.PlotTAS(result, opts, filepath.Join(*out, "tas.png")); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := plotter.PlotJDOS(result, opts, filepath.Join(*out, "jdos.png")); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *preview {
		if err := plotter.Preview(result.Mesh, result.Total, "TAS total", ""); err != nil {
			fmt.Println(err)
		}
	}
}
