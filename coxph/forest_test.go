package coxph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestForestPlot(t *testing.T) {

	m, err := NewModel(data2(), "time", "status", []string{"x1", "x2"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := m.Fit()
	if err != nil {
		t.Fatal(err)
	}

	fname := filepath.Join(t.TempDir(), "forest.png")
	if err := NewForestPlot(r).Width(5).Height(3).Save(fname); err != nil {
		t.Fatal(err)
	}

	fi, err := os.Stat(fname)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("forest plot file is empty")
	}
}
