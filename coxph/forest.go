package coxph

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ForestPlot draws the hazard ratios of a fitted model as a horizontal
// forest plot: one row per covariate with a point at the hazard ratio
// and a bar spanning its 95% confidence interval, with a vertical
// reference line at hazard ratio 1.
type ForestPlot struct {
	plt    *plot.Plot
	width  vg.Length
	height vg.Length
}

// NewForestPlot builds the forest plot for the given results.
func NewForestPlot(r *Results) *ForestPlot {

	fp := &ForestPlot{
		plt:    plot.New(),
		width:  5,
		height: 3,
	}

	plt := fp.plt
	plt.Title.Text = "Hazard ratios"
	plt.X.Label.Text = "Hazard ratio (95% CI)"
	plt.X.Scale = plot.LogScale{}
	plt.X.Tick.Marker = plot.LogTicks{Prec: -1}

	hr := r.HazardRatios()
	lcb, ucb := r.ConfInt()
	names := r.Names()
	n := len(names)

	// Rows from the top down.
	rowY := func(i int) float64 { return float64(n - 1 - i) }

	var rows []string
	for i := n - 1; i >= 0; i-- {
		rows = append(rows, names[i])
	}
	plt.NominalY(rows...)

	// Reference line at HR = 1.
	ref, err := plotter.NewLine(plotter.XYs{
		{X: 1, Y: -0.5}, {X: 1, Y: float64(n) - 0.5},
	})
	if err != nil {
		panic(err)
	}
	ref.Dashes = plotutil.Dashes(1)
	plt.Add(ref)

	for i := 0; i < n; i++ {
		y := rowY(i)

		bar, err := plotter.NewLine(plotter.XYs{
			{X: lcb[i], Y: y}, {X: ucb[i], Y: y},
		})
		if err != nil {
			panic(err)
		}
		bar.Color = plotutil.Color(0)
		plt.Add(bar)

		pt, err := plotter.NewScatter(plotter.XYs{{X: hr[i], Y: y}})
		if err != nil {
			panic(err)
		}
		pt.GlyphStyle.Shape = plotutil.Shape(0)
		pt.GlyphStyle.Radius = vg.Points(3)
		pt.GlyphStyle.Color = plotutil.Color(0)
		plt.Add(pt)
	}

	plt.Y.Min = -0.5
	plt.Y.Max = float64(n) - 0.5

	return fp
}

// Width sets the plot width in inches.
func (fp *ForestPlot) Width(w float64) *ForestPlot {
	fp.width = vg.Length(w)
	return fp
}

// Height sets the plot height in inches.
func (fp *ForestPlot) Height(h float64) *ForestPlot {
	fp.height = vg.Length(h)
	return fp
}

// Save writes the plot to the given file.
func (fp *ForestPlot) Save(fname string) error {
	return fp.plt.Save(fp.width*vg.Inch, fp.height*vg.Inch, fname)
}
