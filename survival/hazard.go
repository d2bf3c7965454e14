package survival

import "math"

// HazardPath holds the hazard functions derived from a survival curve.
type HazardPath struct {

	// Carried over from the source curve.
	Name string

	// The step times of the source curve.
	Times []float64

	// Cumulative hazard -log S(t) at each step.  +Inf where the
	// survival estimate reaches zero.
	CumHaz []float64

	// Instantaneous hazard over the interval ending at each step,
	// the increment in cumulative hazard divided by the elapsed
	// time.  NaN at the first step, which has no prior interval.
	Rates []float64
}

// NewHazard derives the cumulative and instantaneous hazard sequences
// from a fitted survival curve.
func NewHazard(c *Curve) *HazardPath {

	h := &HazardPath{
		Name:   c.Name,
		Times:  make([]float64, len(c.Times)),
		CumHaz: make([]float64, len(c.Times)),
		Rates:  make([]float64, len(c.Times)),
	}
	copy(h.Times, c.Times)

	for i, p := range c.SurvProb {
		h.CumHaz[i] = -math.Log(p)
	}

	for i := range h.Times {
		if i == 0 {
			h.Rates[i] = math.NaN()
			continue
		}
		dt := h.Times[i] - h.Times[i-1]
		h.Rates[i] = (h.CumHaz[i] - h.CumHaz[i-1]) / dt
	}

	return h
}

// ThresholdTime returns the first time at which the cumulative hazard
// is nearest to the given target, skipping steps where the hazard is
// not finite.  Ties in distance are broken by the earlier time.  The
// second return is false if the path has no finite steps.
func (h *HazardPath) ThresholdTime(target float64) (float64, bool) {

	best := math.Inf(1)
	var tbest float64
	var found bool

	for i, v := range h.CumHaz {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		d := math.Abs(v - target)
		if d < best {
			best = d
			tbest = h.Times[i]
			found = true
		}
	}

	return tbest, found
}
