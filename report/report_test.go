package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tgosselin/lungsurv/clinical"
	"github.com/tgosselin/lungsurv/coxph"
	"github.com/tgosselin/lungsurv/survival"
)

// Run the full analysis on the embedded data and render it.  The
// rendering itself must not fail once the regression has converged.
func TestWrite(t *testing.T) {

	cohort, err := clinical.LoadEmbedded()
	if err != nil {
		t.Fatal(err)
	}
	cleaned, stats := clinical.Clean(cohort, zerolog.Nop())

	time := cleaned.Times()
	events := cleaned.Events()

	overall := survival.Fit(time, events)
	bySex := survival.FitGroups(time, events, cleaned.Column("sex"))
	byECOG := survival.FitGroups(time, events, cleaned.Column("ph.ecog"))

	ds := coxph.NewDataset(
		cleaned.Columns("time", "event", "age", "sex", "ph.ecog"),
		[]string{"time", "event", "age", "sex", "ph.ecog"})
	m, err := coxph.NewModel(ds, "time", "event",
		[]string{"age", "sex", "ph.ecog"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fit, err := m.Fit()
	if err != nil {
		t.Fatal(err)
	}

	a := &Analysis{
		Cohort:          cleaned,
		Stats:           stats,
		Overall:         overall,
		BySex:           bySex,
		ByECOG:          byECOG,
		Hazard:          survival.NewHazard(overall),
		HazardThreshold: 1,
		Fit:             fit,
	}

	dir := filepath.Join(t.TempDir(), "out")
	if err := NewWriter(dir, zerolog.Nop()).Write(a); err != nil {
		t.Fatal(err)
	}

	for _, fname := range []string{
		"report.md", "survival.png", "survival_by_sex.png",
		"survival_by_ecog.png", "cumhaz.png", "hazard_rate.png",
		"forest.png",
	} {
		fi, err := os.Stat(filepath.Join(dir, fname))
		if err != nil {
			t.Fatal(err)
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", fname)
		}
	}

	doc, err := os.ReadFile(filepath.Join(dir, "report.md"))
	if err != nil {
		t.Fatal(err)
	}
	for _, frag := range []string{
		"# Lung cancer survival analysis",
		"median survival",
		"Proportional hazards regression",
		"ph.ecog",
		"Model concordance",
	} {
		if !strings.Contains(string(doc), frag) {
			t.Errorf("report is missing %q", frag)
		}
	}
}
