package metrics_test

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/statlab/medscreen/metrics"
)

func TestAUCKnownValue(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 0, 1, 1})
	score := mat.NewVecDense(4, []float64{0.1, 0.4, 0.35, 0.8})

	auc, err := metrics.AUC(yTrue, score)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if math.Abs(auc-0.75) > epsilon {
		t.Errorf("expected AUC 0.75, got %f", auc)
	}
}

func TestAUCPerfectRanking(t *testing.T) {
	yTrue := mat.NewVecDense(6, []float64{0, 0, 0, 1, 1, 1})
	score := mat.NewVecDense(6, []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9})

	auc, err := metrics.AUC(yTrue, score)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if auc != 1.0 {
		t.Errorf("perfect ranking should give AUC exactly 1.0, got %f", auc)
	}
}

func TestAUCInvertedRanking(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 1, 0, 0})
	score := mat.NewVecDense(4, []float64{0.1, 0.2, 0.8, 0.9})

	auc, err := metrics.AUC(yTrue, score)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if auc != 0.0 {
		t.Errorf("perfectly wrong ranking should give AUC 0.0, got %f", auc)
	}
}

func TestAUCRandomScoresNearHalf(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 2000
	yTrue := mat.NewVecDense(n, nil)
	score := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			yTrue.SetVec(i, 1)
		}
		score.SetVec(i, rng.Float64())
	}

	auc, err := metrics.AUC(yTrue, score)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if math.Abs(auc-0.5) > 0.05 {
		t.Errorf("random scores should give AUC near 0.5, got %f", auc)
	}
}

func TestROCCurveShape(t *testing.T) {
	yTrue := mat.NewVecDense(5, []float64{0, 1, 0, 1, 1})
	score := mat.NewVecDense(5, []float64{0.2, 0.9, 0.4, 0.6, 0.3})

	curve, err := metrics.ROC(yTrue, score)
	if err != nil {
		t.Fatalf("ROC failed: %v", err)
	}

	first, last := curve[0], curve[len(curve)-1]
	if first.FPR != 0 || first.TPR != 0 {
		t.Errorf("curve must start at (0,0), got (%f,%f)", first.FPR, first.TPR)
	}
	if last.FPR != 1 || last.TPR != 1 {
		t.Errorf("curve must end at (1,1), got (%f,%f)", last.FPR, last.TPR)
	}

	for i := 1; i < len(curve); i++ {
		if curve[i].FPR < curve[i-1].FPR {
			t.Errorf("FPR must be non-decreasing along the curve")
		}
		if curve[i].TPR < curve[i-1].TPR {
			t.Errorf("TPR must be non-decreasing along the curve")
		}
		if curve[i].Threshold > curve[i-1].Threshold {
			t.Errorf("thresholds must be non-increasing along the curve")
		}
	}
}

func TestROCRestartableIteration(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 0, 1, 1})
	score := mat.NewVecDense(4, []float64{0.1, 0.4, 0.35, 0.8})

	curve, err := metrics.ROC(yTrue, score)
	if err != nil {
		t.Fatalf("ROC failed: %v", err)
	}

	pts := curve.Points()
	pts[0].TPR = 42 // mutating the copy must not touch the curve

	again := curve.Points()
	if again[0].TPR == 42 {
		t.Errorf("Points must return an independent copy")
	}
	if len(pts) != len(again) {
		t.Errorf("repeated iteration must yield the same sequence")
	}
}

func TestROCSingleClassError(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1, 1, 1})
	score := mat.NewVecDense(3, []float64{0.2, 0.5, 0.9})

	if _, err := metrics.ROC(yTrue, score); err == nil {
		t.Errorf("single-class labels should be rejected")
	}
}

func TestROCValidation(t *testing.T) {
	y := mat.NewVecDense(2, []float64{0, 1})

	if _, err := metrics.ROC(nil, y); err == nil {
		t.Errorf("nil input should fail")
	}
	if _, err := metrics.ROC(y, mat.NewVecDense(3, nil)); err == nil {
		t.Errorf("length mismatch should fail")
	}
	if _, err := metrics.ROC(mat.NewVecDense(2, []float64{0, 2}), y); err == nil {
		t.Errorf("non-binary labels should fail")
	}
}
