package coxph

import (
	"math"
	"testing"
)

func TestConcordancePerfect(t *testing.T) {

	time := []float64{1, 2, 3, 4}
	status := []float64{1, 1, 1, 1}
	score := []float64{4, 3, 2, 1}

	if c := Concordance(time, status, score); c != 1 {
		t.Errorf("concordance %v, want 1", c)
	}

	// Reversed scores are perfectly discordant.
	rev := []float64{1, 2, 3, 4}
	if c := Concordance(time, status, rev); c != 0 {
		t.Errorf("concordance %v, want 0", c)
	}
}

func TestConcordanceTiedScores(t *testing.T) {

	time := []float64{1, 2}
	status := []float64{1, 1}
	score := []float64{3, 3}

	if c := Concordance(time, status, score); c != 0.5 {
		t.Errorf("concordance %v, want 0.5", c)
	}
}

func TestConcordanceCensoring(t *testing.T) {

	// Subject 2 is censored at t=2, before subject 1's event, so
	// that pair is not comparable; the two pairs involving subject
	// 0's early event are.
	time := []float64{1, 3, 2}
	status := []float64{1, 1, 0}
	score := []float64{5, 1, 3}

	if c := Concordance(time, status, score); c != 1 {
		t.Errorf("concordance %v, want 1", c)
	}
}

func TestConcordanceNoComparablePairs(t *testing.T) {

	time := []float64{1, 2}
	status := []float64{0, 0}
	score := []float64{1, 2}

	if c := Concordance(time, status, score); !math.IsNaN(c) {
		t.Errorf("concordance %v, want NaN", c)
	}
}
