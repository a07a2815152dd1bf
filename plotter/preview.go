package plotter

import "github.com/Arafatk/glot"

// Preview throws a spectrum at gnuplot for a quick interactive look,
// optionally saving it when path is non-empty. Needs a gnuplot binary
// on PATH; the gonum/plot renderers above are the publication route.
func Preview(mesh, curve []float64, title, path string) error {
	dimensions := 2
	persist := path == ""
	debug := false
	plt, err := glot.NewPlot(dimensions, persist, debug)
	if err != nil {
		return err
	}

	plt.SetTitle(title)
	plt.SetXLabel("Energy (eV)")
	plt.SetYLabel("Signal (a.u.)")

	if err := plt.AddPointGroup(title, "lines", [][]float64{mesh, curve}); err != nil {
		return err
	}
	if path != "" {
		return plt.SavePlot(path)
	}
	return nil
}
