package glm

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	medErrors "github.com/statlab/medscreen/pkg/errors"
)

// syntheticData draws n observations from a known logistic model
// z = -0.5 + 1.5*x0 - 1.0*x1 with standard normal predictors.
func syntheticData(n int, seed int64) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x0 := rng.NormFloat64()
		x1 := rng.NormFloat64()
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		z := -0.5 + 1.5*x0 - 1.0*x1
		if rng.Float64() < stableSigmoid(z) {
			y.SetVec(i, 1.0)
		}
	}
	return X, y
}

func TestLogitFitRecoversSignal(t *testing.T) {
	X, y := syntheticData(400, 1)

	m := NewLogit(WithTerms([]string{"x0", "x1"}))
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	coef := m.Coefficients()
	if len(coef) != 3 {
		t.Fatalf("expected 3 coefficients, got %d", len(coef))
	}
	if coef[1] <= 0 {
		t.Errorf("x0 coefficient should be positive, got %f", coef[1])
	}
	if coef[2] >= 0 {
		t.Errorf("x1 coefficient should be negative, got %f", coef[2])
	}

	preds, err := m.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	correct := 0
	for i := 0; i < preds.Len(); i++ {
		if preds.AtVec(i) == y.AtVec(i) {
			correct++
		}
	}
	acc := float64(correct) / float64(preds.Len())
	if acc < 0.65 {
		t.Errorf("training accuracy %f too low for a strong signal", acc)
	}
}

func TestLogitFitDeterministic(t *testing.T) {
	X, y := syntheticData(200, 2)

	a := NewLogit()
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("first Fit failed: %v", err)
	}
	b := NewLogit()
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("second Fit failed: %v", err)
	}

	ca, cb := a.Coefficients(), b.Coefficients()
	for j := range ca {
		if ca[j] != cb[j] {
			t.Errorf("coefficient %d differs across identical fits: %v vs %v", j, ca[j], cb[j])
		}
	}
}

func TestLogitPredictProbaRange(t *testing.T) {
	X, y := syntheticData(200, 3)

	m := NewLogit()
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	probs, err := m.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	preds, err := m.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	for i := 0; i < probs.Len(); i++ {
		p := probs.AtVec(i)
		if p < 0 || p > 1 {
			t.Fatalf("probability %f out of [0,1] at row %d", p, i)
		}
		want := 0.0
		if p >= 0.5 {
			want = 1.0
		}
		if preds.AtVec(i) != want {
			t.Errorf("prediction at row %d inconsistent with 0.5 threshold", i)
		}
	}
}

func TestLogitFitRejectsSingleClass(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(4, []float64{1, 1, 1, 1})

	err := NewLogit().Fit(X, y)
	if err == nil {
		t.Fatalf("expected error for single-class labels")
	}
}

func TestLogitFitRejectsNonFinite(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, math.NaN(), 3, 4})
	y := mat.NewVecDense(4, []float64{0, 1, 0, 1})

	err := NewLogit().Fit(X, y)
	var valErr *medErrors.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for NaN predictor, got %v", err)
	}

	X.Set(1, 0, math.Inf(1))
	err = NewLogit().Fit(X, y)
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for Inf predictor, got %v", err)
	}
}

func TestLogitFitDimensionMismatch(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(3, []float64{0, 1, 0})

	err := NewLogit().Fit(X, y)
	var dimErr *medErrors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
}

func TestLogitNotFitted(t *testing.T) {
	m := NewLogit()
	X := mat.NewDense(2, 1, []float64{1, 2})

	_, err := m.Predict(X)
	var nfErr *medErrors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
	if _, err := m.Summary(); err == nil {
		t.Errorf("Summary on unfitted model should fail")
	}
}

func TestLogitCollinearPredictors(t *testing.T) {
	// Second column is an exact copy of the first.
	rng := rand.New(rand.NewSource(4))
	n := 100
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v := rng.NormFloat64()
		X.Set(i, 0, v)
		X.Set(i, 1, v)
		if rng.Float64() < stableSigmoid(v) {
			y.SetVec(i, 1.0)
		}
	}

	err := NewLogit().Fit(X, y)
	if err == nil {
		t.Fatalf("expected a fitting failure for collinear predictors")
	}
}
