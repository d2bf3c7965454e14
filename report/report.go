// Package report renders the survival analysis as a markdown document
// with accompanying plot files.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tgosselin/lungsurv/clinical"
	"github.com/tgosselin/lungsurv/coxph"
	"github.com/tgosselin/lungsurv/survival"
)

// Analysis collects everything the report presents.
type Analysis struct {

	// The cleaned cohort and what cleaning did to it.
	Cohort clinical.Cohort
	Stats  clinical.CleanStats

	// Survival curves: overall and grouped.
	Overall *survival.Curve
	BySex   []*survival.Curve
	ByECOG  []*survival.Curve

	// Hazard functions derived from the overall curve.
	Hazard *survival.HazardPath

	// Cumulative-hazard level whose crossing time is reported as the
	// expected event time.
	HazardThreshold float64

	// The converged regression fit.
	Fit *coxph.Results

	// Plot dimensions in inches.
	PlotWidth, PlotHeight float64
}

// Writer renders an Analysis into a directory.
type Writer struct {
	dir string
	log zerolog.Logger
}

// NewWriter returns a Writer that renders into the given directory,
// creating it if needed.
func NewWriter(dir string, lg zerolog.Logger) *Writer {
	return &Writer{dir: dir, log: lg}
}

// Write renders the document and its plots.  It returns the first
// rendering or file error encountered.
func (w *Writer) Write(a *Analysis) error {

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	pw, ph := a.PlotWidth, a.PlotHeight
	if pw == 0 {
		pw = 5
	}
	if ph == 0 {
		ph = 4
	}

	plots := []struct {
		fname string
		save  func(string) error
	}{
		{"survival.png", func(f string) error {
			return survival.NewCurvePlotter("Overall survival").
				Width(pw).Height(ph).Add(a.Overall).Save(f)
		}},
		{"survival_by_sex.png", func(f string) error {
			cp := survival.NewCurvePlotter("Survival by sex").Width(pw).Height(ph)
			for _, c := range a.BySex {
				cp.Add(c)
			}
			return cp.Save(f)
		}},
		{"survival_by_ecog.png", func(f string) error {
			cp := survival.NewCurvePlotter("Survival by ECOG score").Width(pw).Height(ph)
			for _, c := range a.ByECOG {
				cp.Add(c)
			}
			return cp.Save(f)
		}},
		{"cumhaz.png", func(f string) error {
			return survival.NewHazardPlotter("Cumulative hazard", "Cumulative hazard").
				Width(pw).Height(ph).AddCumHaz(a.Hazard).Save(f)
		}},
		{"hazard_rate.png", func(f string) error {
			return survival.NewHazardPlotter("Hazard rate", "Hazard per day").
				Width(pw).Height(ph).AddRates(a.Hazard).Save(f)
		}},
		{"forest.png", func(f string) error {
			return coxph.NewForestPlot(a.Fit).Width(pw).Height(ph).Save(f)
		}},
	}

	for _, p := range plots {
		path := filepath.Join(w.dir, p.fname)
		if err := p.save(path); err != nil {
			return fmt.Errorf("render %s: %w", p.fname, err)
		}
		w.log.Debug().Str("plot", path).Msg("wrote plot")
	}

	path := filepath.Join(w.dir, "report.md")
	if err := os.WriteFile(path, w.document(a), 0o644); err != nil {
		return err
	}
	w.log.Info().Str("report", path).Msg("wrote report")

	return nil
}

func (w *Writer) document(a *Analysis) []byte {

	var b bytes.Buffer

	fmt.Fprintf(&b, "# Lung cancer survival analysis\n\n")

	fmt.Fprintf(&b, "## Cohort\n\n")
	fmt.Fprintf(&b, "%d patients entered the analysis after cleaning (%d loaded, %d dropped for a missing performance score).\n",
		a.Stats.Out, a.Stats.In, a.Stats.Dropped)
	fmt.Fprintf(&b, "Missing meal calories were imputed with the column mean %.1f (%d records); missing weight loss with %.1f (%d records).\n",
		a.Stats.MeanMealCal, a.Stats.ImputedMealCal, a.Stats.MeanWtLoss, a.Stats.ImputedWtLoss)
	fmt.Fprintf(&b, "%d deaths were observed.\n\n", a.Cohort.NumEvents())

	fmt.Fprintf(&b, "## Survival\n\n")
	fmt.Fprintf(&b, "![overall survival](survival.png)\n\n")
	writeMedian(&b, "Overall", a.Overall)
	for _, c := range a.BySex {
		writeMedian(&b, c.Name, c)
	}
	fmt.Fprintf(&b, "\n![survival by sex](survival_by_sex.png)\n")
	fmt.Fprintf(&b, "![survival by ECOG](survival_by_ecog.png)\n\n")

	writeCurveTable(&b, a.Overall)

	fmt.Fprintf(&b, "## Hazard\n\n")
	fmt.Fprintf(&b, "![cumulative hazard](cumhaz.png)\n")
	fmt.Fprintf(&b, "![hazard rate](hazard_rate.png)\n\n")
	if t, ok := a.Hazard.ThresholdTime(a.HazardThreshold); ok {
		fmt.Fprintf(&b, "The cumulative hazard first reaches %.2f near day %.0f.\n\n",
			a.HazardThreshold, t)
	}

	fmt.Fprintf(&b, "## Proportional hazards regression\n\n")
	fmt.Fprintf(&b, "```\n%s```\n\n", a.Fit.Summary())
	fmt.Fprintf(&b, "![forest plot](forest.png)\n\n")

	fmt.Fprintf(&b, "## Interpretation\n\n")
	writeInterpretation(&b, a.Fit)

	return b.Bytes()
}

// curveTableRows caps the size of the survival table in the document;
// long curves are thinned to roughly this many evenly spaced steps.
const curveTableRows = 12

func writeCurveTable(b *bytes.Buffer, c *survival.Curve) {

	n := len(c.Times)
	if n == 0 {
		return
	}
	stride := 1
	if n > curveTableRows {
		stride = n / curveTableRows
	}

	fmt.Fprintf(b, "| Time | At risk | Events | Survival | SE |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|\n")
	for i := 0; i < n; i += stride {
		fmt.Fprintf(b, "| %.0f | %.0f | %.0f | %.3f | %.3f |\n",
			c.Times[i], c.NumRisk[i], c.NumEvents[i],
			c.SurvProb[i], c.SurvProbSE[i])
	}
	fmt.Fprintf(b, "\n")
}

func writeMedian(b *bytes.Buffer, label string, c *survival.Curve) {
	if t, ok := c.Median(); ok {
		fmt.Fprintf(b, "- %s: median survival %.0f days.\n", label, t)
	} else {
		fmt.Fprintf(b, "- %s: median survival not reached.\n", label)
	}
}

func writeInterpretation(b *bytes.Buffer, r *coxph.Results) {

	hr := r.HazardRatios()
	lcb, ucb := r.ConfInt()
	pv := r.PValues()

	for i, na := range r.Names() {
		direction := "increases"
		if hr[i] < 1 {
			direction = "decreases"
		}
		strength := "but the association is not statistically significant at the 5% level"
		if pv[i] < 0.05 {
			strength = "a statistically significant association"
		}
		fmt.Fprintf(b, "- A one-unit increase in %s %s the hazard by a factor of %.2f (95%% CI %.2f-%.2f, p=%.3f), %s.\n",
			na, direction, hr[i], lcb[i], ucb[i], pv[i], strength)
	}

	fmt.Fprintf(b, "\nModel concordance is %.3f: the fitted risk scores correctly order %.0f%% of comparable patient pairs.\n",
		r.Concordance(), 100*r.Concordance())
}
