package metrics

import (
	"time"

	"gonum.org/v1/gonum/mat"

	medErrors "github.com/statlab/medscreen/pkg/errors"
	"github.com/statlab/medscreen/pkg/log"
)

// Result joins, per test observation, the true label, the predicted
// label, and the predicted probability of the positive class. It is the
// single input of the evaluation stage.
type Result struct {
	True        *mat.VecDense
	Predicted   *mat.VecDense
	Probability *mat.VecDense
}

// NewResult validates and assembles the evaluation table.
func NewResult(yTrue, yPred, prob *mat.VecDense) (*Result, error) {
	if yTrue == nil || yPred == nil || prob == nil {
		return nil, medErrors.NewValueError("NewResult", "input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return nil, medErrors.NewValueError("NewResult", "input vectors cannot be empty")
	}
	if yPred.Len() != n {
		return nil, medErrors.NewDimensionError("NewResult", n, yPred.Len(), 0)
	}
	if prob.Len() != n {
		return nil, medErrors.NewDimensionError("NewResult", n, prob.Len(), 0)
	}
	for i := 0; i < n; i++ {
		if p := prob.AtVec(i); p < 0 || p > 1 {
			return nil, medErrors.NewValidationError("probability",
				"must lie in [0, 1]", p)
		}
	}
	return &Result{True: yTrue, Predicted: yPred, Probability: prob}, nil
}

// Len returns the number of evaluated observations.
func (r *Result) Len() int { return r.True.Len() }

// Report is the full metric battery of one evaluation run.
type Report struct {
	Confusion ConfusionMatrix

	Accuracy                float64
	Sensitivity             float64
	Specificity             float64
	Precision               float64
	NegativePredictiveValue float64
	FMeasure                float64
	BalancedAccuracy        float64
	Prevalence              float64
	Kappa                   float64
	MCC                     float64

	AUC float64
	ROC Curve
}

// Evaluate computes the confusion matrix, the scalar metrics, and the ROC
// curve for the result table.
//
// Scalar metrics with degenerate denominators come back NaN without
// aborting the rest of the evaluation; only structural problems (label
// vectors of a single class, which leave no ROC curve) are errors.
func (r *Result) Evaluate() (_ *Report, err error) {
	defer medErrors.Recover(&err, "Result.Evaluate")

	start := time.Now()

	cm, err := NewConfusionMatrix(r.True, r.Predicted)
	if err != nil {
		return nil, err
	}

	curve, err := ROC(r.True, r.Probability)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Confusion: cm,

		Accuracy:                cm.Accuracy(),
		Sensitivity:             cm.Sensitivity(),
		Specificity:             cm.Specificity(),
		Precision:               cm.Precision(),
		NegativePredictiveValue: cm.NegativePredictiveValue(),
		FMeasure:                cm.FMeasure(),
		BalancedAccuracy:        cm.BalancedAccuracy(),
		Prevalence:              cm.Prevalence(),
		Kappa:                   cm.CohenKappa(),
		MCC:                     cm.MatthewsCorrCoef(),

		AUC: curve.AUC(),
		ROC: curve,
	}

	log.GetLoggerWithName("metrics").Info("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseEvaluation,
		log.SamplesKey, r.Len(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return report, nil
}
