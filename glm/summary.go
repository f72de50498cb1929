package glm

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	medErrors "github.com/statlab/medscreen/pkg/errors"
)

// waldQuantile is the two-sided 95% normal quantile used for odds-ratio
// confidence intervals.
const waldQuantile = 1.959963984540054

// Summary is the coefficient table and fit statistics of a fitted Logit.
type Summary struct {
	// Terms names each coefficient; Terms[0] is "(Intercept)".
	Terms []string

	// Estimates are coefficients in log-odds units; StdErrors, ZStats and
	// PValues are the matching Wald statistics.
	Estimates []float64
	StdErrors []float64
	ZStats    []float64
	PValues   []float64

	// Deviance statistics of the fitted vs intercept-only model.
	NullDeviance float64
	Deviance     float64
	AIC          float64
	McFaddenR2   float64

	Iterations int
	NObs       int
}

// Summary returns the coefficient table of the fitted model.
func (m *Logit) Summary() (*Summary, error) {
	if !m.state.IsFitted() {
		return nil, medErrors.NewNotFittedError("Logit", "Summary")
	}

	pDim := len(m.coef)
	s := &Summary{
		Terms:     make([]string, pDim),
		Estimates: make([]float64, pDim),
		StdErrors: make([]float64, pDim),
		ZStats:    make([]float64, pDim),
		PValues:   make([]float64, pDim),

		NullDeviance: -2.0 * m.nullLogLik,
		Deviance:     -2.0 * m.logLik,
		AIC:          -2.0*m.logLik + 2.0*float64(pDim),
		McFaddenR2:   1.0 - m.logLik/m.nullLogLik,

		Iterations: m.nIter,
		NObs:       m.state.NSamples(),
	}

	normal := distuv.UnitNormal
	s.Terms[0] = "(Intercept)"
	for j := 0; j < pDim; j++ {
		if j > 0 {
			if j-1 < len(m.terms) {
				s.Terms[j] = m.terms[j-1]
			} else {
				s.Terms[j] = "x" + strconv.Itoa(j-1)
			}
		}
		s.Estimates[j] = m.coef[j]
		s.StdErrors[j] = m.stdErr[j]
		s.ZStats[j] = m.coef[j] / m.stdErr[j]
		s.PValues[j] = 2.0 * normal.CDF(-math.Abs(s.ZStats[j]))
	}

	return s, nil
}

// OddsRatio is an exponentiated coefficient with its 95% Wald interval.
// Exponentiation overflow saturates to +Inf rather than erroring.
type OddsRatio struct {
	Term  string
	Ratio float64
	Lower float64
	Upper float64
}

// OddsRatios reports each coefficient as a multiplicative effect on the
// odds of the positive outcome per unit change in the predictor.
func (s *Summary) OddsRatios() []OddsRatio {
	out := make([]OddsRatio, len(s.Estimates))
	for j := range s.Estimates {
		est, se := s.Estimates[j], s.StdErrors[j]
		out[j] = OddsRatio{
			Term:  s.Terms[j],
			Ratio: math.Exp(est),
			Lower: math.Exp(est - waldQuantile*se),
			Upper: math.Exp(est + waldQuantile*se),
		}
	}
	return out
}
