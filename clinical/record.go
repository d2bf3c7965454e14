// Package clinical holds the lung cancer cohort used by the analysis:
// the fixed per-patient dataset, its loader, and the missing value
// cleaning that precedes survival estimation.
package clinical

import "math"

// Status codes used in the source data.
const (
	StatusCensored = 1
	StatusDead     = 2
)

// Record is one patient in the cohort.  Numeric fields that may be
// missing in the source data are NaN when absent.
type Record struct {

	// Institution code
	Inst float64

	// Observation time in days
	Time float64

	// StatusCensored or StatusDead
	Status float64

	// Age in years
	Age float64

	// 1 = male, 2 = female
	Sex float64

	// ECOG performance score (0-4), physician rated
	ECOG float64

	// Karnofsky performance score (0-100), physician rated
	PhKarno float64

	// Karnofsky performance score (0-100), patient rated
	PatKarno float64

	// Calories consumed at meals
	MealCal float64

	// Weight loss in the last six months
	WtLoss float64
}

// Event reports whether the event of interest (death) was observed for
// this record, as opposed to the observation being censored.
func (r *Record) Event() bool {
	return r.Status == StatusDead
}

// Cohort is the set of patient records under analysis.  A cohort is
// never mutated in place; cleaning produces a new cohort and the
// original is retained.
type Cohort []Record

// Times returns the observation times for the cohort.
func (c Cohort) Times() []float64 {
	x := make([]float64, len(c))
	for i := range c {
		x[i] = c[i].Time
	}
	return x
}

// Events returns the event indicator for the cohort, 1 where death was
// observed and 0 where the observation is censored.
func (c Cohort) Events() []float64 {
	x := make([]float64, len(c))
	for i := range c {
		if c[i].Event() {
			x[i] = 1
		}
	}
	return x
}

// Column returns one named column of the cohort as a slice.  The name
// must be one of the dataset's column names; unknown names panic.
func (c Cohort) Column(name string) []float64 {
	f, ok := extractors[name]
	if !ok {
		panic("clinical: no column named " + name)
	}
	x := make([]float64, len(c))
	for i := range c {
		x[i] = f(&c[i])
	}
	return x
}

// Columns returns the named columns in dataset order, for handing the
// cohort to the regression fitter.
func (c Cohort) Columns(names ...string) [][]float64 {
	cols := make([][]float64, len(names))
	for j, na := range names {
		cols[j] = c.Column(na)
	}
	return cols
}

// NumEvents returns the number of observed deaths in the cohort.
func (c Cohort) NumEvents() int {
	var n int
	for i := range c {
		if c[i].Event() {
			n++
		}
	}
	return n
}

var extractors = map[string]func(*Record) float64{
	"inst":      func(r *Record) float64 { return r.Inst },
	"time":      func(r *Record) float64 { return r.Time },
	"status":    func(r *Record) float64 { return r.Status },
	"event":     func(r *Record) float64 { return b2f(r.Event()) },
	"age":       func(r *Record) float64 { return r.Age },
	"sex":       func(r *Record) float64 { return r.Sex },
	"ph.ecog":   func(r *Record) float64 { return r.ECOG },
	"ph.karno":  func(r *Record) float64 { return r.PhKarno },
	"pat.karno": func(r *Record) float64 { return r.PatKarno },
	"meal.cal":  func(r *Record) float64 { return r.MealCal },
	"wt.loss":   func(r *Record) float64 { return r.WtLoss },
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// nanmean returns the arithmetic mean of the finite, non-missing values
// in x, and NaN if there are none.
func nanmean(x []float64) float64 {
	var sum float64
	var n int
	for _, v := range x {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
