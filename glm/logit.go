// Package glm implements the binomial generalized linear model with a
// logit link used by the screening pipeline.
//
// Coefficients are estimated by maximum likelihood: the mean negative
// log-likelihood of the observed binary outcomes is minimized with L-BFGS
// (gonum/optimize). Coefficients are reported in log-odds units relative
// to the positive outcome class encoded as 1 in the label vector; the
// Summary carries Wald standard errors, z statistics and p-values derived
// from the observed Fisher information at the optimum.
//
// Fitting failures are never swallowed: non-convergence surfaces as a
// ConvergenceError and a singular information matrix (collinear
// predictors) as ErrSingularMatrix.
package glm

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/statlab/medscreen/core/model"
	medErrors "github.com/statlab/medscreen/pkg/errors"
	"github.com/statlab/medscreen/pkg/log"
)

const epsilonSmall = 1e-15

// FitConfig holds the optimizer settings for Logit.Fit.
type FitConfig struct {
	MaxIter int     // maximum L-BFGS major iterations
	Tol     float64 // gradient infinity-norm convergence threshold
}

// DefaultFitConfig matches the usual IRLS-grade tolerances.
var DefaultFitConfig = FitConfig{MaxIter: 100, Tol: 1e-6}

// Logit is a binary logistic regression model.
type Logit struct {
	state *model.StateManager
	cfg   FitConfig
	terms []string // term names for the summary, intercept excluded

	// Fitted parameters. coef[0] is the intercept, coef[1:] follow the
	// design-matrix column order.
	coef   []float64
	stdErr []float64
	nIter  int

	// Log-likelihoods of the fitted and intercept-only models.
	logLik     float64
	nullLogLik float64

	logger log.Logger
}

// Option configures a Logit before fitting.
type Option func(*Logit)

// WithMaxIter sets the maximum number of optimizer iterations.
func WithMaxIter(maxIter int) Option {
	return func(m *Logit) { m.cfg.MaxIter = maxIter }
}

// WithTol sets the gradient convergence threshold.
func WithTol(tol float64) Option {
	return func(m *Logit) { m.cfg.Tol = tol }
}

// WithTerms names the predictor columns for the coefficient table.
func WithTerms(terms []string) Option {
	return func(m *Logit) {
		m.terms = make([]string, len(terms))
		copy(m.terms, terms)
	}
}

// NewLogit creates an untrained logistic regression model.
func NewLogit(opts ...Option) *Logit {
	m := &Logit{
		state: model.NewStateManager(),
		cfg:   DefaultFitConfig,
	}
	m.logger = log.GetLoggerWithName("glm").With(
		log.ModelNameKey, "Logit",
		log.ComponentKey, "glm",
	)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// stableSigmoid computes sigmoid(z) in a numerically stable way.
func stableSigmoid(z float64) float64 {
	if z >= 0 {
		ez := math.Exp(-z)
		return 1.0 / (1.0 + ez)
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}

// clampProbability clamps p away from 0 and 1 to avoid log(0).
func clampProbability(p float64) float64 {
	if p < epsilonSmall {
		return epsilonSmall
	}
	if p > 1-epsilonSmall {
		return 1 - epsilonSmall
	}
	return p
}

// Fit estimates the model coefficients from the training data.
//
// X is the (n_samples, n_features) design matrix, y the 0/1 label vector
// with 1 marking the positive class. All values must be finite; rows with
// missing values belong to the cleaning stage, not here.
func (m *Logit) Fit(X mat.Matrix, y *mat.VecDense) (err error) {
	defer medErrors.Recover(&err, "Logit.Fit")

	startTime := time.Now()
	nSamples, nFeatures := X.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return medErrors.NewModelError("Logit.Fit", "empty data", medErrors.ErrEmptyData)
	}
	if y.Len() != nSamples {
		return medErrors.NewDimensionError("Logit.Fit", nSamples, y.Len(), 0)
	}

	nPos := 0
	for i := 0; i < nSamples; i++ {
		v := y.AtVec(i)
		if v != 0.0 && v != 1.0 {
			return medErrors.NewValidationError("y",
				"labels must be 0 or 1", v)
		}
		if v == 1.0 {
			nPos++
		}
	}
	if nPos == 0 || nPos == nSamples {
		return medErrors.NewValueError("Logit.Fit",
			"training labels contain a single class")
	}
	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			if v := X.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return medErrors.NewValidationError("X",
					"non-finite predictor value", v)
			}
		}
	}

	m.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)

	xD := mat.DenseCopyOf(X)
	yv := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		yv[i] = y.AtVec(i)
	}

	// Parameter vector: [intercept, w_0 .. w_{d-1}].
	pDim := nFeatures + 1
	x0 := make([]float64, pDim)

	prob := optimize.Problem{
		Func: func(theta []float64) float64 {
			b := theta[0]
			w := theta[1:]
			loss := 0.0
			for i := 0; i < nSamples; i++ {
				z := b
				for j := 0; j < nFeatures; j++ {
					z += w[j] * xD.At(i, j)
				}
				p := clampProbability(stableSigmoid(z))
				loss += -yv[i]*math.Log(p) - (1.0-yv[i])*math.Log(1.0-p)
			}
			return loss / float64(nSamples)
		},
		Grad: func(grad, theta []float64) {
			b := theta[0]
			w := theta[1:]
			for j := range grad {
				grad[j] = 0
			}
			for i := 0; i < nSamples; i++ {
				z := b
				for j := 0; j < nFeatures; j++ {
					z += w[j] * xD.At(i, j)
				}
				diff := stableSigmoid(z) - yv[i]
				grad[0] += diff
				for j := 0; j < nFeatures; j++ {
					grad[j+1] += diff * xD.At(i, j)
				}
			}
			invN := 1.0 / float64(nSamples)
			for j := range grad {
				grad[j] *= invN
			}
		},
	}

	settings := optimize.Settings{
		GradientThreshold: m.cfg.Tol,
		MajorIterations:   m.cfg.MaxIter,
	}
	method := &optimize.LBFGS{}
	result, optErr := optimize.Minimize(prob, x0, &settings, method)
	if optErr != nil {
		return medErrors.NewConvergenceError("Logit.Fit",
			m.cfg.MaxIter, medErrors.Wrap(optErr, "lbfgs optimization failed"))
	}
	if result.Status == optimize.IterationLimit {
		return medErrors.NewConvergenceError("Logit.Fit",
			result.Stats.MajorIterations, nil)
	}

	m.coef = make([]float64, pDim)
	copy(m.coef, result.X)
	m.nIter = result.Stats.MajorIterations

	if err := m.computeInference(xD, yv); err != nil {
		return err
	}

	m.state.SetFitted()
	m.state.SetDimensions(nFeatures, nSamples)

	m.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.IterationsKey, m.nIter,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)

	return nil
}

// computeInference derives standard errors and log-likelihoods at the
// fitted coefficients. The covariance of the estimates is the inverse of
// the observed Fisher information X'WX with W = diag(p(1-p)).
func (m *Logit) computeInference(xD *mat.Dense, yv []float64) error {
	nSamples, nFeatures := xD.Dims()
	pDim := nFeatures + 1

	probs := make([]float64, nSamples)
	logLik := 0.0
	for i := 0; i < nSamples; i++ {
		z := m.coef[0]
		for j := 0; j < nFeatures; j++ {
			z += m.coef[j+1] * xD.At(i, j)
		}
		p := clampProbability(stableSigmoid(z))
		probs[i] = p
		logLik += yv[i]*math.Log(p) + (1.0-yv[i])*math.Log(1.0-p)
	}
	m.logLik = logLik

	// Intercept-only log-likelihood for the deviance comparison.
	pBar := 0.0
	for _, v := range yv {
		pBar += v
	}
	pBar /= float64(nSamples)
	pBar = clampProbability(pBar)
	m.nullLogLik = 0.0
	for _, v := range yv {
		m.nullLogLik += v*math.Log(pBar) + (1.0-v)*math.Log(1.0-pBar)
	}

	// Observed Fisher information, intercept column first.
	info := mat.NewDense(pDim, pDim, nil)
	row := make([]float64, pDim)
	for i := 0; i < nSamples; i++ {
		row[0] = 1.0
		for j := 0; j < nFeatures; j++ {
			row[j+1] = xD.At(i, j)
		}
		w := probs[i] * (1.0 - probs[i])
		for a := 0; a < pDim; a++ {
			for b := a; b < pDim; b++ {
				v := info.At(a, b) + w*row[a]*row[b]
				info.Set(a, b, v)
				if a != b {
					info.Set(b, a, v)
				}
			}
		}
	}

	var cov mat.Dense
	if err := cov.Inverse(info); err != nil {
		return medErrors.NewModelError("Logit.Fit",
			"information matrix inversion failed", medErrors.ErrSingularMatrix)
	}

	m.stdErr = make([]float64, pDim)
	for j := 0; j < pDim; j++ {
		m.stdErr[j] = math.Sqrt(cov.At(j, j))
	}
	return nil
}

// linearPredictor computes the log-odds for one row of X.
func (m *Logit) linearPredictor(X mat.Matrix, i int) float64 {
	z := m.coef[0]
	for j := 0; j < m.state.NFeatures(); j++ {
		z += m.coef[j+1] * X.At(i, j)
	}
	return z
}

// PredictProba returns the predicted probability of the positive class
// for each row of X.
func (m *Logit) PredictProba(X mat.Matrix) (_ *mat.VecDense, err error) {
	defer medErrors.Recover(&err, "Logit.PredictProba")

	if !m.state.IsFitted() {
		return nil, medErrors.NewNotFittedError("Logit", "PredictProba")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != m.state.NFeatures() {
		return nil, medErrors.NewDimensionError("Logit.PredictProba",
			m.state.NFeatures(), nFeatures, 1)
	}

	probs := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		probs.SetVec(i, stableSigmoid(m.linearPredictor(X, i)))
	}

	m.logger.Debug("Probabilities computed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, nSamples,
	)
	return probs, nil
}

// Predict returns the 0/1 class prediction for each row of X. A
// probability of at least 0.5 predicts the positive class.
func (m *Logit) Predict(X mat.Matrix) (*mat.VecDense, error) {
	probs, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	preds := mat.NewVecDense(probs.Len(), nil)
	for i := 0; i < probs.Len(); i++ {
		if probs.AtVec(i) >= 0.5 {
			preds.SetVec(i, 1.0)
		}
	}
	return preds, nil
}

// Coefficients returns the fitted coefficients, intercept first, in
// log-odds units.
func (m *Logit) Coefficients() []float64 {
	out := make([]float64, len(m.coef))
	copy(out, m.coef)
	return out
}

// IsFitted returns whether the model has been fitted.
func (m *Logit) IsFitted() bool {
	return m.state.IsFitted()
}
