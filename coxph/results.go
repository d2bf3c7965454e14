package coxph

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Results holds the estimates from a converged proportional hazards
// fit.
type Results struct {
	model *Model

	names  []string
	params []float64
	vcov   []float64

	loglike     float64
	nullLoglike float64
	concordance float64

	stderr  []float64
	zscores []float64
	pvalues []float64
}

// Model returns the model that produced the results.
func (r *Results) Model() *Model {
	return r.model
}

// Names returns the covariate names.
func (r *Results) Names() []string {
	return r.names
}

// Params returns the estimated regression coefficients.
func (r *Results) Params() []float64 {
	return r.params
}

// VCov returns the sampling variance/covariance matrix of the
// coefficient estimates, vectorized in row major order.
func (r *Results) VCov() []float64 {
	return r.vcov
}

// LogLike returns the maximized partial log-likelihood.
func (r *Results) LogLike() float64 {
	return r.loglike
}

// NullLogLike returns the partial log-likelihood with all coefficients
// at zero.
func (r *Results) NullLogLike() float64 {
	return r.nullLoglike
}

// StdErr returns the standard errors of the coefficient estimates.
func (r *Results) StdErr() []float64 {

	if r.stderr != nil {
		return r.stderr
	}

	p := len(r.params)
	r.stderr = make([]float64, p)
	for i := range r.stderr {
		r.stderr[i] = math.Sqrt(r.vcov[i*p+i])
	}

	return r.stderr
}

// ZScores returns the Wald Z-scores, the coefficient estimates divided
// by their standard errors.
func (r *Results) ZScores() []float64 {

	if r.zscores != nil {
		return r.zscores
	}

	std := r.StdErr()
	r.zscores = make([]float64, len(r.params))
	for i := range std {
		r.zscores[i] = r.params[i] / std[i]
	}

	return r.zscores
}

// PValues returns two-sided Wald p-values for the null hypothesis that
// each coefficient is zero.
func (r *Results) PValues() []float64 {

	if r.pvalues != nil {
		return r.pvalues
	}

	r.pvalues = make([]float64, len(r.params))
	for i, z := range r.ZScores() {
		r.pvalues[i] = 2 * normcdf(-math.Abs(z))
	}

	return r.pvalues
}

// HazardRatios returns the exponentiated coefficients.
func (r *Results) HazardRatios() []float64 {

	hr := make([]float64, len(r.params))
	for i, b := range r.params {
		hr[i] = math.Exp(b)
	}

	return hr
}

// ConfInt returns 95% confidence bounds for the hazard ratios,
// exp(b +/- 1.96 se).
func (r *Results) ConfInt() (lcb, ucb []float64) {

	std := r.StdErr()
	lcb = make([]float64, len(r.params))
	ucb = make([]float64, len(r.params))
	for i, b := range r.params {
		lcb[i] = math.Exp(b - 1.96*std[i])
		ucb[i] = math.Exp(b + 1.96*std[i])
	}

	return lcb, ucb
}

// Concordance returns the concordance index of the fitted risk scores.
func (r *Results) Concordance() float64 {
	return r.concordance
}

// LRStat returns the likelihood ratio statistic against the null model
// with all coefficients at zero.
func (r *Results) LRStat() float64 {
	return 2 * (r.loglike - r.nullLoglike)
}

// LRPValue returns the p-value of the likelihood ratio test, referred
// to a chi-squared distribution with one degree of freedom per
// coefficient.
func (r *Results) LRPValue() float64 {
	chi2 := distuv.ChiSquared{K: float64(len(r.params))}
	return chi2.Survival(r.LRStat())
}

func normcdf(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt(2))
}

// vcov inverts the negated Hessian at the given parameter values.
func vcov(m *Model, params []float64) ([]float64, error) {

	nvar := m.NumParams()
	hess := make([]float64, nvar*nvar)
	m.Hessian(params, hess)

	hmat := mat.NewDense(nvar, nvar, hess)
	hessi := make([]float64, nvar*nvar)
	himat := mat.NewDense(nvar, nvar, hessi)
	if err := himat.Inverse(hmat); err != nil {
		return nil, err
	}
	himat.Scale(-1, himat)

	return hessi, nil
}
