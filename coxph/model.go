package coxph

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Config holds optional settings for fitting a proportional hazards
// regression.
type Config struct {

	// Starting values for the coefficient estimates.
	Start []float64

	// OptMethod is the gonum optimization method used to maximize
	// the partial likelihood.
	OptMethod optimize.Method

	// OptSettings configures the gonum optimization routine.
	OptSettings *optimize.Settings
}

// DefaultConfig returns the default fitting configuration.
func DefaultConfig() *Config {

	return &Config{
		OptMethod: &optimize.BFGS{
			Linesearcher: &optimize.MoreThuente{},
		},
		OptSettings: &optimize.Settings{
			GradientThreshold: 1e-6,
			MajorIterations:   200,
		},
	}
}

// Model is a proportional hazards regression model for right censored
// data.  Ties are resolved with the Breslow approximation.
type Model struct {

	// The names of the variables, in the order of data.
	varnames []string

	// The data to which the model is fit.
	data [][]float64

	// Positions of the time, status and covariate columns.
	timepos   int
	statuspos int
	xpos      []int

	// Starting values, optional.
	start []float64

	// The sorted distinct times at which events occur.
	etimes []float64

	// enter[j], exit[j] and event[j] are the row indices that enter
	// the risk set, leave it, or have an event at the jth distinct
	// event time.
	enter [][]int
	exit  [][]int
	event [][]int

	// The sum of covariates over rows with events.
	sumx []float64

	// skip[i] is true if row i is censored before the first event
	// and never contributes to the likelihood.
	skip            []bool
	skipEarlyCensor int

	settings *optimize.Settings
	method   optimize.Method
}

// NewModel prepares a proportional hazards regression of the time and
// status variables on the given covariates.  The status variable must
// be coded 1 for an event and 0 for a censored observation, and times
// must be non-negative.
func NewModel(data Dataset, time, status string, covariates []string, config *Config) (*Model, error) {

	if config == nil {
		config = DefaultConfig()
	}

	pos := make(map[string]int)
	for i, v := range data.Names() {
		pos[v] = i
	}

	timepos, ok := pos[time]
	if !ok {
		return nil, fmt.Errorf("coxph: time variable %q not found in dataset", time)
	}
	statuspos, ok := pos[status]
	if !ok {
		return nil, fmt.Errorf("coxph: status variable %q not found in dataset", status)
	}

	var xpos []int
	for _, xna := range covariates {
		xp, ok := pos[xna]
		if !ok {
			return nil, fmt.Errorf("coxph: covariate %q not found in dataset", xna)
		}
		xpos = append(xpos, xp)
	}

	m := &Model{
		varnames:  data.Names(),
		data:      data.Data(),
		timepos:   timepos,
		statuspos: statuspos,
		xpos:      xpos,
		start:     config.Start,
		settings:  config.OptSettings,
		method:    config.OptMethod,
	}

	for i, t := range m.data[timepos] {
		if t < 0 || math.IsNaN(t) {
			return nil, fmt.Errorf("coxph: row %d has negative or missing time", i)
		}
		if s := m.data[statuspos][i]; s != 0 && s != 1 {
			return nil, fmt.Errorf("coxph: row %d has status %v, want 0 or 1", i, s)
		}
	}

	m.setupTimes()
	m.setupCovs()

	return m, nil
}

// NumObs returns the number of observations in the data set.
func (m *Model) NumObs() int {
	return len(m.data[m.timepos])
}

// NumParams returns the number of regression coefficients.
func (m *Model) NumParams() int {
	return len(m.xpos)
}

// setupTimes builds the risk set entry, exit and event indices at each
// distinct event time.
func (m *Model) setupTimes() {

	time := m.data[m.timepos]
	status := m.data[m.statuspos]
	nobs := len(time)

	m.skip = make([]bool, nobs)

	// Sorted distinct event times.
	var et []float64
	for i := range time {
		if status[i] == 1 {
			et = append(et, time[i])
		}
	}
	if len(et) > 0 {
		sort.Float64s(et)
		j := 0
		for i := 1; i < len(et); i++ {
			if et[i] != et[j] {
				j++
				et[j] = et[i]
			}
		}
		et = et[0 : j+1]
	}
	m.etimes = et

	m.enter = make([][]int, len(et))
	m.exit = make([][]int, len(et))
	m.event = make([][]int, len(et))

	if len(et) == 0 {
		return
	}

	// Risk set exit times.
	for i := range time {
		ii := sort.SearchFloat64s(et, time[i])
		switch {
		case ii == len(et):
			// Censored after the last event, never exits.
		case et[ii] == time[i]:
			// Event, or censored at an event time.
			m.exit[ii] = append(m.exit[ii], i)
		case ii == 0:
			// Censored before the first event, never enters.
			m.skip[i] = true
			m.skipEarlyCensor++
		default:
			// Censored between event times.
			m.exit[ii-1] = append(m.exit[ii-1], i)
		}
	}

	// Event times.
	for i := range time {
		if status[i] == 0 || m.skip[i] {
			continue
		}
		ii := sort.SearchFloat64s(et, time[i])
		m.event[ii] = append(m.event[ii], i)
	}

	// Everyone enters the risk set at time zero.
	for i := range time {
		if !m.skip[i] {
			m.enter[0] = append(m.enter[0], i)
		}
	}
}

// setupCovs accumulates the covariate sums over event rows, the
// constant part of the score.
func (m *Model) setupCovs() {

	status := m.data[m.statuspos]

	m.sumx = make([]float64, len(m.xpos))
	for j, k := range m.xpos {
		x := m.data[k]
		for i := range x {
			if !m.skip[i] && status[i] == 1 {
				m.sumx[j] += x[i]
			}
		}
	}
}

// linpred fills lp with the linear predictor at the given coefficients.
func (m *Model) linpred(coeff, lp []float64) {
	zero(lp)
	for j, k := range m.xpos {
		x := m.data[k]
		for i := range x {
			lp[i] += x[i] * coeff[j]
		}
	}
}

// LogLike returns the Breslow partial log-likelihood at the given
// coefficients.
func (m *Model) LogLike(coeff []float64) float64 {

	nobs := m.NumObs()
	lp := make([]float64, nobs)
	elp := make([]float64, nobs)
	m.linpred(coeff, lp)

	// Any constant can be subtracted here, by invariance of the
	// partial likelihood.
	mx := floats.Max(lp)
	for i := range lp {
		lp[i] -= mx
		elp[i] = math.Exp(lp[i])
	}

	var ql, rlp float64
	for k := range m.etimes {

		for _, i := range m.enter[k] {
			rlp += elp[i]
		}

		for _, i := range m.event[k] {
			ql += lp[i]
		}
		ql -= float64(len(m.event[k])) * math.Log(rlp)

		for _, i := range m.exit[k] {
			rlp -= elp[i]
		}
	}

	return ql
}

// Score computes the score vector of the partial log-likelihood at the
// given coefficients, storing it in score.
func (m *Model) Score(coeff, score []float64) {

	copy(score, m.sumx)

	nobs := m.NumObs()
	lp := make([]float64, nobs)
	m.linpred(coeff, lp)

	mx := floats.Max(lp)
	for i := range lp {
		lp[i] = math.Exp(lp[i] - mx)
	}

	rlp := float64(0)
	rlpv := make([]float64, len(m.xpos))
	for k := range m.etimes {

		for _, i := range m.enter[k] {
			rlp += lp[i]
			for j, kx := range m.xpos {
				rlpv[j] += lp[i] * m.data[kx][i]
			}
		}

		d := float64(len(m.event[k]))
		floats.AddScaledTo(score, score, -d/rlp, rlpv)

		for _, i := range m.exit[k] {
			rlp -= lp[i]
			for j, kx := range m.xpos {
				rlpv[j] -= lp[i] * m.data[kx][i]
			}
		}
	}
}

// Hessian computes the Hessian matrix of the partial log-likelihood at
// the given coefficients, storing it in hess in row major order.
func (m *Model) Hessian(coeff, hess []float64) {

	zero(hess)

	nobs := m.NumObs()
	lp := make([]float64, nobs)
	m.linpred(coeff, lp)

	mx := floats.Max(lp)
	for i := range lp {
		lp[i] = math.Exp(lp[i] - mx)
	}

	p := len(m.xpos)
	d1s := make([]float64, p)
	d2s := make([]float64, p*p)

	var rlp float64
	for k := range m.etimes {

		for _, i := range m.enter[k] {
			rlp += lp[i]
			for j1, k1 := range m.xpos {
				x1 := m.data[k1]
				d1s[j1] += lp[i] * x1[i]
				for j2 := 0; j2 <= j1; j2++ {
					x2 := m.data[m.xpos[j2]]
					u := lp[i] * x1[i] * x2[i]
					d2s[j1*p+j2] += u
					if j2 != j1 {
						d2s[j2*p+j1] += u
					}
				}
			}
		}

		d := float64(len(m.event[k]))
		jj := 0
		for j1 := 0; j1 < p; j1++ {
			for j2 := 0; j2 < p; j2++ {
				hess[jj] -= d * d2s[j1*p+j2] / rlp
				hess[jj] += d * d1s[j1] * d1s[j2] / (rlp * rlp)
				jj++
			}
		}

		for _, i := range m.exit[k] {
			rlp -= lp[i]
			for j1, k1 := range m.xpos {
				x1 := m.data[k1]
				d1s[j1] -= lp[i] * x1[i]
				for j2 := 0; j2 <= j1; j2++ {
					x2 := m.data[m.xpos[j2]]
					u := lp[i] * x1[i] * x2[i]
					d2s[j1*p+j2] -= u
					if j2 != j1 {
						d2s[j2*p+j1] -= u
					}
				}
			}
		}
	}
}

// BaselineCumHaz returns the Breslow estimator of the baseline
// cumulative hazard function at the given coefficients, evaluated at
// the distinct event times.
func (m *Model) BaselineCumHaz(coeff []float64) ([]float64, []float64) {

	nobs := m.NumObs()
	lp := make([]float64, nobs)
	m.linpred(coeff, lp)

	h0 := make([]float64, len(m.event))
	var elp float64
	for k := range m.etimes {
		for _, i := range m.enter[k] {
			elp += math.Exp(lp[i])
		}
		h0[k] = float64(len(m.event[k])) / elp
		for _, i := range m.exit[k] {
			elp -= math.Exp(lp[i])
		}
	}

	h1 := make([]float64, len(h0))
	for i := 1; i < len(h0); i++ {
		h1[i] = h1[i-1] + h0[i-1]
	}

	return m.etimes, h1
}

// Fit estimates the model coefficients by maximizing the partial
// likelihood.  A fit that does not converge returns an error and no
// results.
func (m *Model) Fit() (*Results, error) {

	nvar := len(m.xpos)
	if len(m.etimes) == 0 {
		return nil, fmt.Errorf("coxph: no events in the data, nothing to fit")
	}

	start := m.start
	if start == nil {
		start = make([]float64, nvar)
	}

	p := optimize.Problem{
		Func: func(x []float64) float64 {
			return -m.LogLike(x)
		},
		Grad: func(grad, x []float64) {
			m.Score(x, grad)
			negative(grad)
		},
	}

	optrslt, err := optimize.Minimize(p, start, m.settings, m.method)
	if err != nil {
		return nil, fmt.Errorf("coxph: fit did not converge: %w", err)
	}
	if err := optrslt.Status.Err(); err != nil {
		return nil, fmt.Errorf("coxph: fit did not converge: %w", err)
	}

	params := make([]float64, len(optrslt.X))
	copy(params, optrslt.X)

	vcov, err := vcov(m, params)
	if err != nil {
		return nil, fmt.Errorf("coxph: fit did not converge: %w", err)
	}

	var xna []string
	for _, k := range m.xpos {
		xna = append(xna, m.varnames[k])
	}

	// Concordance of the fitted risk scores against the observed
	// outcomes.
	score := make([]float64, m.NumObs())
	m.linpred(params, score)
	conc := Concordance(m.data[m.timepos], m.data[m.statuspos], score)

	return &Results{
		model:       m,
		names:       xna,
		params:      params,
		vcov:        vcov,
		loglike:     -optrslt.F,
		nullLoglike: m.LogLike(make([]float64, nvar)),
		concordance: conc,
	}, nil
}

func zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

func negative(x []float64) {
	for i := range x {
		x[i] *= -1
	}
}
