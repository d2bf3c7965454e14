// Package survival estimates right censored survival curves with the
// method of Kaplan and Meier, and derives hazard functions from them.
package survival

import (
	"fmt"
	"math"
	"sort"
)

// Curve is an estimated survival function: a non-increasing step
// function that is 1 at time zero and changes at the observed event
// times.
type Curve struct {

	// Label of the group the curve was estimated from, empty for an
	// overall curve.
	Name string

	// Times at which events occur, sorted.  The last observed time
	// is retained even if no event occurred there.
	Times []float64

	// Number of events at each time in Times.
	NumEvents []float64

	// Number of subjects at risk just before each time in Times.
	NumRisk []float64

	// The estimated survival probability at each time in Times.
	SurvProb []float64

	// Greenwood standard errors for SurvProb.  NaN where the risk
	// set is exhausted.
	SurvProbSE []float64
}

// Fit estimates the survival function for the given observation times
// and event indicators (1 = event, 0 = censored).  The two slices must
// have the same length.
func Fit(time, status []float64) *Curve {

	if len(time) != len(status) {
		panic("survival: time and status lengths differ")
	}

	events := make(map[float64]float64)
	total := make(map[float64]float64)
	for i, t := range time {
		if status[i] == 1 {
			events[t]++
		}
		total[t]++
	}

	c := &Curve{}

	// Sorted distinct times, event or censoring.
	c.Times = make([]float64, 0, len(total))
	for t := range total {
		c.Times = append(c.Times, t)
	}
	sort.Float64s(c.Times)

	// Event count and risk set size at each time, ties handled by
	// applying all deaths and exits at a time together.
	c.NumEvents = make([]float64, len(c.Times))
	c.NumRisk = make([]float64, len(c.Times))
	for i, t := range c.Times {
		c.NumEvents[i] = events[t]
		c.NumRisk[i] = total[t]
	}
	rollback(c.NumRisk)

	c.compress()
	c.fit()

	return c
}

// rollback converts per-time exit counts to risk set sizes by
// accumulating from the right.
func rollback(x []float64) {
	var z float64
	for i := len(x) - 1; i >= 0; i-- {
		z += x[i]
		x[i] = z
	}
}

// compress drops times with no events, keeping the last point so the
// curve extends to the end of follow-up.
func (c *Curve) compress() {

	var ix []int
	for i := range c.Times {
		if c.NumEvents[i] > 0 || i == len(c.Times)-1 {
			ix = append(ix, i)
		}
	}

	if len(ix) < len(c.Times) {
		for i, j := range ix {
			c.Times[i] = c.Times[j]
			c.NumEvents[i] = c.NumEvents[j]
			c.NumRisk[i] = c.NumRisk[j]
		}
		c.Times = c.Times[0:len(ix)]
		c.NumEvents = c.NumEvents[0:len(ix)]
		c.NumRisk = c.NumRisk[0:len(ix)]
	}
}

func (c *Curve) fit() {

	c.SurvProb = make([]float64, len(c.Times))
	x := float64(1)
	for i := range c.Times {
		// An empty risk set contributes no factor; the curve
		// stays flat rather than dividing by zero.
		if c.NumRisk[i] > 0 {
			x *= 1 - c.NumEvents[i]/c.NumRisk[i]
		}
		c.SurvProb[i] = x
	}

	c.SurvProbSE = make([]float64, len(c.Times))
	x = 0
	for i := range c.Times {
		d := c.NumEvents[i]
		n := c.NumRisk[i]
		if n > d {
			x += d / (n * (n - d))
			c.SurvProbSE[i] = math.Sqrt(x) * c.SurvProb[i]
		} else {
			c.SurvProbSE[i] = math.NaN()
		}
	}
}

// Median returns the estimated median survival time, the smallest time
// at which the survival probability is 0.5 or less.  The second return
// is false if the curve never reaches 0.5.
func (c *Curve) Median() (float64, bool) {
	for i, p := range c.SurvProb {
		if p <= 0.5 {
			return c.Times[i], true
		}
	}
	return math.NaN(), false
}

// FitGroups estimates one survival curve per distinct value of the
// group variable.  Curves are returned sorted by group value, with the
// value formatted into the curve name.  A group with no events yields a
// flat curve at 1.
func FitGroups(time, status, group []float64) []*Curve {

	if len(group) != len(time) {
		panic("survival: group and time lengths differ")
	}

	ix := make(map[float64][]int)
	for i, g := range group {
		ix[g] = append(ix[g], i)
	}

	keys := make([]float64, 0, len(ix))
	for g := range ix {
		keys = append(keys, g)
	}
	sort.Float64s(keys)

	var curves []*Curve
	for _, g := range keys {
		var t1, s1 []float64
		for _, i := range ix[g] {
			t1 = append(t1, time[i])
			s1 = append(s1, status[i])
		}
		c := Fit(t1, s1)
		c.Name = fmt.Sprintf("%g", g)
		curves = append(curves, c)
	}

	return curves
}
