package survival

import (
	"path/filepath"
	"testing"
)

func TestPlotCurves(t *testing.T) {

	time := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	status := []float64{1, 1, 0, 1, 1, 0, 1, 1}
	group := []float64{0, 1, 0, 1, 0, 1, 0, 1}

	dir := t.TempDir()

	cp := NewCurvePlotter("Survival").Width(4).Height(3)
	for _, c := range FitGroups(time, status, group) {
		cp.Add(c)
	}
	if err := cp.Save(filepath.Join(dir, "surv.png")); err != nil {
		t.Fatal(err)
	}

	h := NewHazard(Fit(time, status))
	hp := NewHazardPlotter("Cumulative hazard", "Cumulative hazard").
		Width(4).Height(3).AddCumHaz(h)
	if err := hp.Save(filepath.Join(dir, "cumhaz.png")); err != nil {
		t.Fatal(err)
	}
	rp := NewHazardPlotter("Hazard rate", "Hazard per day").
		Width(4).Height(3).AddRates(h)
	if err := rp.Save(filepath.Join(dir, "rates.png")); err != nil {
		t.Fatal(err)
	}
}
