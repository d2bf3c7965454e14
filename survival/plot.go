package survival

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// CurvePlotter draws one or more survival curves as step functions.
type CurvePlotter struct {
	plt    *plot.Plot
	lines  []*plotter.Line
	labels []string

	width  vg.Length
	height vg.Length
}

// NewCurvePlotter returns a plotter for survival curves with the given
// title.
func NewCurvePlotter(title string) *CurvePlotter {

	cp := &CurvePlotter{
		plt:    plot.New(),
		width:  4,
		height: 4,
	}
	cp.plt.Title.Text = title

	return cp
}

// Width sets the plot width in inches.
func (cp *CurvePlotter) Width(w float64) *CurvePlotter {
	cp.width = vg.Length(w)
	return cp
}

// Height sets the plot height in inches.
func (cp *CurvePlotter) Height(h float64) *CurvePlotter {
	cp.height = vg.Length(h)
	return cp
}

// Add plots a survival curve, labeled with the curve's group name.
func (cp *CurvePlotter) Add(c *Curve) *CurvePlotter {

	line, err := plotter.NewLine(stepPoints(c.Times, c.SurvProb, 1))
	if err != nil {
		panic(err)
	}
	line.Color = plotutil.Color(len(cp.lines))
	cp.lines = append(cp.lines, line)
	cp.labels = append(cp.labels, c.Name)

	return cp
}

// Save draws the plot and writes it to the given file.
func (cp *CurvePlotter) Save(fname string) error {

	cp.plt.Y.Min = 0
	cp.plt.Y.Max = 1
	cp.plt.X.Label.Text = "Days"
	cp.plt.Y.Label.Text = "Proportion surviving"

	for i, line := range cp.lines {
		cp.plt.Add(line)
		if cp.labels[i] != "" {
			cp.plt.Legend.Add(cp.labels[i], line)
		}
	}
	if len(cp.lines) > 1 {
		cp.plt.Legend.Top = false
		cp.plt.Legend.Left = true
	}

	return cp.plt.Save(cp.width*vg.Inch, cp.height*vg.Inch, fname)
}

// HazardPlotter draws cumulative hazard or hazard rate sequences.
type HazardPlotter struct {
	plt    *plot.Plot
	lines  []*plotter.Line
	labels []string

	width  vg.Length
	height vg.Length
}

// NewHazardPlotter returns a plotter with the given title and y axis
// label.
func NewHazardPlotter(title, ylabel string) *HazardPlotter {

	hp := &HazardPlotter{
		plt:    plot.New(),
		width:  4,
		height: 4,
	}
	hp.plt.Title.Text = title
	hp.plt.X.Label.Text = "Days"
	hp.plt.Y.Label.Text = ylabel

	return hp
}

// Width sets the plot width in inches.
func (hp *HazardPlotter) Width(w float64) *HazardPlotter {
	hp.width = vg.Length(w)
	return hp
}

// Height sets the plot height in inches.
func (hp *HazardPlotter) Height(h float64) *HazardPlotter {
	hp.height = vg.Length(h)
	return hp
}

// AddCumHaz plots the cumulative hazard of the given path as a step
// function starting at zero.
func (hp *HazardPlotter) AddCumHaz(h *HazardPath) *HazardPlotter {
	return hp.add(stepPoints(h.Times, h.CumHaz, 0), h.Name)
}

// AddRates plots the instantaneous hazard sequence of the given path.
// The first step, where the rate is undefined, is omitted.
func (hp *HazardPlotter) AddRates(h *HazardPath) *HazardPlotter {

	var pts plotter.XYs
	for i := range h.Times {
		if !finite(h.Rates[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: h.Times[i], Y: h.Rates[i]})
	}

	return hp.add(pts, h.Name)
}

func (hp *HazardPlotter) add(pts plotter.XYs, label string) *HazardPlotter {

	line, err := plotter.NewLine(pts)
	if err != nil {
		panic(err)
	}
	line.Color = plotutil.Color(len(hp.lines))
	hp.lines = append(hp.lines, line)
	hp.labels = append(hp.labels, label)

	return hp
}

// Save draws the plot and writes it to the given file.
func (hp *HazardPlotter) Save(fname string) error {

	for i, line := range hp.lines {
		hp.plt.Add(line)
		if hp.labels[i] != "" {
			hp.plt.Legend.Add(hp.labels[i], line)
		}
	}
	if len(hp.lines) > 1 {
		hp.plt.Legend.Top = true
		hp.plt.Legend.Left = true
	}

	return hp.plt.Save(hp.width*vg.Inch, hp.height*vg.Inch, fname)
}

// stepPoints converts a step sequence to line points, starting from the
// given value at time zero.  Non-finite values end the trace.
func stepPoints(times, vals []float64, start float64) plotter.XYs {

	pts := plotter.XYs{{X: 0, Y: start}}
	for i := range times {
		if !finite(vals[i]) {
			break
		}
		pts = append(pts, plotter.XY{X: times[i], Y: pts[len(pts)-1].Y})
		pts = append(pts, plotter.XY{X: times[i], Y: vals[i]})
	}

	return pts
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
