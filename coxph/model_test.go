package coxph

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

func data1() Dataset {

	da := [][]float64{
		{1, 1, 2, 3, 3, 4},
		{1, 1, 0, 0, 1, 0},
		{4, 2, 5, 6, 6, 5},
	}

	return NewDataset(da, []string{"Time", "Status", "X"})
}

// A deterministic dataset large enough for a stable fit.
func data2() Dataset {

	var time, status, x1, x2 []float64
	for i := 0; i < 60; i++ {
		x1 = append(x1, float64(i%3))
		x2 = append(x2, float64(i%7)-3)
		if i%5 == 0 {
			status = append(status, 0)
		} else {
			status = append(status, 1)
		}
		time = append(time, 10/float64(4+i%3+i%7-3)+0.5*(float64(i%6)-2))
	}

	return NewDataset([][]float64{time, status, x1, x2},
		[]string{"time", "status", "x1", "x2"})
}

// Basic risk set and likelihood checks against values verified with
// Python Statsmodels.
func TestSimple(t *testing.T) {

	m, err := NewModel(data1(), "Time", "Status", []string{"X"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if fmt.Sprintf("%v", m.etimes) != "[1 3]" {
		t.Fail()
	}
	if fmt.Sprintf("%v", m.enter) != "[[0 1 2 3 4 5] []]" {
		t.Fail()
	}
	if fmt.Sprintf("%v", m.exit) != "[[0 1 2] [3 4]]" {
		t.Fail()
	}
	if fmt.Sprintf("%v", m.event) != "[[0 1] [4]]" {
		t.Fail()
	}

	if math.Abs(m.LogLike([]float64{2})-(-14.415134793348063)) > 1e-5 {
		t.Fail()
	}
	if math.Abs(m.LogLike([]float64{1})-(-8.9840993267811093)) > 1e-5 {
		t.Fail()
	}

	score := make([]float64, 1)
	m.Score([]float64{2}, score)
	if math.Abs(score[0]-(-5.66698338)) > 1e-5 {
		t.Fail()
	}
	m.Score([]float64{1}, score)
	if math.Abs(score[0]-(-5.09729328)) > 1e-5 {
		t.Fail()
	}

	hess := make([]float64, 1)
	m.Hessian([]float64{1}, hess)
	if math.Abs(hess[0]-(-0.93879427)) > 1e-5 {
		t.Fail()
	}
}

// The analytic score must agree with a numerical derivative of the
// log-likelihood.
func TestScoreNumeric(t *testing.T) {

	m, err := NewModel(data2(), "time", "status", []string{"x1", "x2"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	pt := []float64{0.3, -0.2}
	score := make([]float64, 2)
	m.Score(pt, score)

	dl := 1e-7
	for j := range pt {
		pt1 := []float64{pt[0], pt[1]}
		pt1[j] += dl
		num := (m.LogLike(pt1) - m.LogLike(pt)) / dl
		if math.Abs(score[j]-num) > 1e-4 {
			t.Errorf("score[%d] = %v, numeric %v", j, score[j], num)
		}
	}
}

// Permuting the rows must not change the fitted coefficients.
func TestFitOrderIndependence(t *testing.T) {

	da := data2()
	m, err := NewModel(da, "time", "status", []string{"x1", "x2"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	rslt, err := m.Fit()
	if err != nil {
		t.Fatal(err)
	}

	// Reverse the rows.
	cols := da.Data()
	n := len(cols[0])
	perm := make([][]float64, len(cols))
	for j, col := range cols {
		perm[j] = make([]float64, n)
		for i, v := range col {
			perm[j][n-1-i] = v
		}
	}
	dp := NewDataset(perm, da.Names())

	mp, err := NewModel(dp, "time", "status", []string{"x1", "x2"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	rsltp, err := mp.Fit()
	if err != nil {
		t.Fatal(err)
	}

	if !floats.EqualApprox(rslt.Params(), rsltp.Params(), 1e-6) {
		fmt.Printf("Got      %v\n", rsltp.Params())
		fmt.Printf("Expected %v\n", rslt.Params())
		t.Fail()
	}
	if !floats.EqualApprox(rslt.StdErr(), rsltp.StdErr(), 1e-6) {
		t.Fail()
	}
}

// A covariate that drives early events should get a positive
// coefficient.
func TestFitSign(t *testing.T) {

	var time, status, x []float64
	for i := 0; i < 40; i++ {
		xi := float64(i % 4)
		x = append(x, xi)
		time = append(time, 20-2*xi+3*float64(i%5))
		status = append(status, 1)
	}

	da := NewDataset([][]float64{time, status, x}, []string{"time", "status", "x"})
	m, err := NewModel(da, "time", "status", []string{"x"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	rslt, err := m.Fit()
	if err != nil {
		t.Fatal(err)
	}

	if rslt.Params()[0] <= 0 {
		t.Errorf("coefficient %v, want > 0", rslt.Params()[0])
	}
}

// An iteration-starved fit surfaces a non-convergence error instead of
// returning coefficients.
func TestNonConvergence(t *testing.T) {

	config := DefaultConfig()
	config.OptSettings = &optimize.Settings{
		GradientThreshold: 1e-12,
		MajorIterations:   1,
	}

	m, err := NewModel(data2(), "time", "status", []string{"x1", "x2"}, config)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Fit(); err == nil {
		t.Errorf("expected a non-convergence error")
	}
}

func TestNoEvents(t *testing.T) {

	da := NewDataset([][]float64{
		{1, 2, 3},
		{0, 0, 0},
		{5, 6, 7},
	}, []string{"time", "status", "x"})

	m, err := NewModel(da, "time", "status", []string{"x"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Fit(); err == nil {
		t.Errorf("expected an error fitting with no events")
	}
}

func TestMissingVariables(t *testing.T) {

	if _, err := NewModel(data1(), "NoSuchTime", "Status", []string{"X"}, nil); err == nil {
		t.Fail()
	}
	if _, err := NewModel(data1(), "Time", "Status", []string{"Y"}, nil); err == nil {
		t.Fail()
	}
}

// Breslow baseline cumulative hazard at zero coefficients reduces to
// event counts over risk set sizes.
func TestBaselineCumHaz(t *testing.T) {

	m, err := NewModel(data1(), "Time", "Status", []string{"X"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	times, ch := m.BaselineCumHaz([]float64{0})

	if !floats.EqualApprox(times, []float64{1, 3}, 1e-12) {
		t.Fatalf("times %v", times)
	}
	// h0(1) = 2/6; the cumulative hazard lags by one step.
	if !floats.EqualApprox(ch, []float64{0, 2.0 / 6}, 1e-12) {
		t.Errorf("cumulative hazard %v", ch)
	}
}
