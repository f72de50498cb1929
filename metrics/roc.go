package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	medErrors "github.com/statlab/medscreen/pkg/errors"
)

// Point is one operating point of a ROC curve: the false-positive and
// true-positive rates obtained by classifying scores strictly above
// Threshold as positive.
type Point struct {
	FPR       float64
	TPR       float64
	Threshold float64
}

// Curve is the ordered sequence of ROC operating points from (0,0) to
// (1,1), one per distinct score threshold.
type Curve []Point

// Points returns a fresh copy of the operating points, so callers can
// iterate or plot without aliasing the curve.
func (c Curve) Points() []Point {
	out := make([]Point, len(c))
	copy(out, c)
	return out
}

// AUC integrates the curve with the trapezoid rule.
func (c Curve) AUC() float64 {
	auc := 0.0
	for i := 1; i < len(c); i++ {
		width := c[i].FPR - c[i-1].FPR
		height := (c[i].TPR + c[i-1].TPR) / 2.0
		auc += width * height
	}
	return auc
}

// ROC computes the receiver operating characteristic of probability
// scores against ground-truth 0/1 labels.
//
// Scores are swept in descending order; each distinct score value
// contributes one operating point. The curve always starts at (0,0) and
// ends at (1,1).
//
// If the labels contain a single class the curve is degenerate; ROC
// returns an error in that case since neither rate is defined.
func ROC(yTrue, score *mat.VecDense) (Curve, error) {
	if yTrue == nil || score == nil {
		return nil, medErrors.NewValueError("ROC", "input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return nil, medErrors.NewValueError("ROC", "input vectors cannot be empty")
	}
	if n != score.Len() {
		return nil, medErrors.NewDimensionError("ROC", n, score.Len(), 0)
	}

	type pair struct {
		score float64
		label float64
	}
	pairs := make([]pair, n)
	totalPos, totalNeg := 0.0, 0.0
	for i := 0; i < n; i++ {
		v := yTrue.AtVec(i)
		if v != 0.0 && v != 1.0 {
			return nil, medErrors.NewValidationError("yTrue",
				"must contain only binary values (0 or 1)", v)
		}
		if v == 1.0 {
			totalPos++
		} else {
			totalNeg++
		}
		pairs[i] = pair{score: score.AtVec(i), label: v}
	}
	if totalPos == 0 || totalNeg == 0 {
		return nil, medErrors.NewValueError("ROC",
			"labels contain a single class; TPR or FPR is undefined")
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})

	curve := Curve{{FPR: 0, TPR: 0, Threshold: pairs[0].score + 1}}

	tp, fp := 0.0, 0.0
	prevScore := pairs[0].score + 1
	for _, p := range pairs {
		if p.score != prevScore {
			curve = append(curve, Point{
				FPR:       fp / totalNeg,
				TPR:       tp / totalPos,
				Threshold: p.score,
			})
			prevScore = p.score
		}
		if p.label == 1.0 {
			tp++
		} else {
			fp++
		}
	}

	curve = append(curve, Point{FPR: 1, TPR: 1, Threshold: pairs[n-1].score})
	return curve, nil
}

// AUC is a convenience wrapper computing the area under the ROC curve of
// scores against labels.
func AUC(yTrue, score *mat.VecDense) (float64, error) {
	curve, err := ROC(yTrue, score)
	if err != nil {
		return 0, err
	}
	return curve.AUC(), nil
}
