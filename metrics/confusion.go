// Package metrics computes binary classification evaluation metrics: the
// confusion matrix with its derived scalar battery, and the ROC curve
// with its area.
//
// Every metric is a pure function of its inputs. Metrics whose
// denominator can vanish on degenerate confusion matrices (precision,
// recall, specificity, F-measure, Kappa) report NaN rather than erroring,
// matching standard statistical convention; the Matthews correlation
// coefficient is defined as 0 when its denominator is 0.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	medErrors "github.com/statlab/medscreen/pkg/errors"
)

// ConfusionMatrix holds the 2x2 counts of true versus predicted class for
// a binary classifier, with the positive class encoded as 1.
type ConfusionMatrix struct {
	TP int // true 1, predicted 1
	FP int // true 0, predicted 1
	FN int // true 1, predicted 0
	TN int // true 0, predicted 0
}

// NewConfusionMatrix tallies true and predicted 0/1 labels.
//
// Returns an error if the vectors are nil, empty, of different lengths,
// or contain non-binary values.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (ConfusionMatrix, error) {
	var cm ConfusionMatrix

	if yTrue == nil || yPred == nil {
		return cm, medErrors.NewValueError("NewConfusionMatrix",
			"input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return cm, medErrors.NewValueError("NewConfusionMatrix",
			"input vectors cannot be empty")
	}
	if n != yPred.Len() {
		return cm, medErrors.NewDimensionError("NewConfusionMatrix", n, yPred.Len(), 0)
	}

	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		if (t != 0.0 && t != 1.0) || (p != 0.0 && p != 1.0) {
			return cm, medErrors.NewValidationError("labels",
				"must contain only binary values (0 or 1)", [2]float64{t, p})
		}
		switch {
		case t == 1.0 && p == 1.0:
			cm.TP++
		case t == 0.0 && p == 1.0:
			cm.FP++
		case t == 1.0 && p == 0.0:
			cm.FN++
		default:
			cm.TN++
		}
	}
	return cm, nil
}

// Total returns the number of classified observations. It always equals
// the length of the label vectors the matrix was built from.
func (cm ConfusionMatrix) Total() int {
	return cm.TP + cm.FP + cm.FN + cm.TN
}

// Accuracy is the fraction of correct predictions.
func (cm ConfusionMatrix) Accuracy() float64 {
	total := cm.Total()
	if total == 0 {
		return math.NaN()
	}
	return float64(cm.TP+cm.TN) / float64(total)
}

// Sensitivity (recall, true-positive rate) is TP / (TP + FN).
func (cm ConfusionMatrix) Sensitivity() float64 {
	denom := cm.TP + cm.FN
	if denom == 0 {
		return math.NaN()
	}
	return float64(cm.TP) / float64(denom)
}

// Specificity (true-negative rate) is TN / (TN + FP).
func (cm ConfusionMatrix) Specificity() float64 {
	denom := cm.TN + cm.FP
	if denom == 0 {
		return math.NaN()
	}
	return float64(cm.TN) / float64(denom)
}

// Precision (positive predictive value) is TP / (TP + FP).
func (cm ConfusionMatrix) Precision() float64 {
	denom := cm.TP + cm.FP
	if denom == 0 {
		return math.NaN()
	}
	return float64(cm.TP) / float64(denom)
}

// NegativePredictiveValue is TN / (TN + FN).
func (cm ConfusionMatrix) NegativePredictiveValue() float64 {
	denom := cm.TN + cm.FN
	if denom == 0 {
		return math.NaN()
	}
	return float64(cm.TN) / float64(denom)
}

// Prevalence is the fraction of truly positive observations.
func (cm ConfusionMatrix) Prevalence() float64 {
	total := cm.Total()
	if total == 0 {
		return math.NaN()
	}
	return float64(cm.TP+cm.FN) / float64(total)
}

// FMeasure is the harmonic mean of precision and recall,
// 2PR / (P + R). NaN when either component is undefined or both are 0.
func (cm ConfusionMatrix) FMeasure() float64 {
	p, r := cm.Precision(), cm.Sensitivity()
	if math.IsNaN(p) || math.IsNaN(r) || p+r == 0 {
		return math.NaN()
	}
	return 2.0 * p * r / (p + r)
}

// BalancedAccuracy is the mean of sensitivity and specificity.
func (cm ConfusionMatrix) BalancedAccuracy() float64 {
	return (cm.Sensitivity() + cm.Specificity()) / 2.0
}

// CohenKappa measures agreement between truth and prediction corrected
// for the agreement expected from the marginal frequencies alone:
// (p_o - p_e) / (1 - p_e). NaN when expected agreement is exactly 1.
func (cm ConfusionMatrix) CohenKappa() float64 {
	total := float64(cm.Total())
	if total == 0 {
		return math.NaN()
	}

	po := float64(cm.TP+cm.TN) / total
	// Expected agreement under independence of the marginals.
	pYes := (float64(cm.TP+cm.FN) / total) * (float64(cm.TP+cm.FP) / total)
	pNo := (float64(cm.TN+cm.FP) / total) * (float64(cm.TN+cm.FN) / total)
	pe := pYes + pNo

	if pe == 1.0 {
		return math.NaN()
	}
	return (po - pe) / (1.0 - pe)
}

// MatthewsCorrCoef is the Matthews correlation coefficient,
// (TP*TN - FP*FN) / sqrt((TP+FP)(TP+FN)(TN+FP)(TN+FN)).
// Defined as 0 when the denominator is 0.
func (cm ConfusionMatrix) MatthewsCorrCoef() float64 {
	tp, fp := float64(cm.TP), float64(cm.FP)
	fn, tn := float64(cm.FN), float64(cm.TN)

	denom := math.Sqrt((tp + fp) * (tp + fn) * (tn + fp) * (tn + fn))
	if denom == 0 {
		return 0.0
	}
	return (tp*tn - fp*fn) / denom
}
