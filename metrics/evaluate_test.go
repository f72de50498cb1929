package metrics_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/statlab/medscreen/metrics"
)

func sampleResult(t *testing.T) *metrics.Result {
	t.Helper()
	yTrue := mat.NewVecDense(8, []float64{1, 0, 1, 1, 0, 0, 1, 0})
	yPred := mat.NewVecDense(8, []float64{1, 0, 0, 1, 0, 1, 1, 0})
	prob := mat.NewVecDense(8, []float64{0.9, 0.2, 0.4, 0.8, 0.1, 0.6, 0.7, 0.3})

	result, err := metrics.NewResult(yTrue, yPred, prob)
	require.NoError(t, err)
	return result
}

func TestEvaluateFullBattery(t *testing.T) {
	result := sampleResult(t)

	report, err := result.Evaluate()
	require.NoError(t, err)

	assert.Equal(t, result.Len(), report.Confusion.Total(),
		"confusion counts must sum to the number of test observations")

	cm := report.Confusion
	assert.Equal(t, 3, cm.TP)
	assert.Equal(t, 1, cm.FP)
	assert.Equal(t, 1, cm.FN)
	assert.Equal(t, 3, cm.TN)

	assert.InDelta(t, 0.75, report.Accuracy, epsilon)
	assert.InDelta(t, 0.75, report.Sensitivity, epsilon)
	assert.InDelta(t, 0.75, report.Specificity, epsilon)
	assert.InDelta(t, 0.75, report.Precision, epsilon)
	assert.InDelta(t, 0.75, report.FMeasure, epsilon)
	assert.InDelta(t, 0.5, report.Kappa, epsilon)
	assert.InDelta(t, 0.5, report.MCC, epsilon)

	assert.True(t, report.AUC >= 0 && report.AUC <= 1)
	assert.NotEmpty(t, report.ROC)
}

func TestEvaluateScalarAndCurveAgree(t *testing.T) {
	result := sampleResult(t)

	report, err := result.Evaluate()
	require.NoError(t, err)

	direct, err := metrics.AUC(result.True, result.Probability)
	require.NoError(t, err)
	assert.InDelta(t, direct, report.AUC, epsilon)
	assert.InDelta(t, direct, report.ROC.AUC(), epsilon)
}

func TestNewResultValidation(t *testing.T) {
	y := mat.NewVecDense(2, []float64{0, 1})
	p := mat.NewVecDense(2, []float64{0.3, 0.8})

	_, err := metrics.NewResult(nil, y, p)
	assert.Error(t, err, "nil input must fail")

	_, err = metrics.NewResult(y, mat.NewVecDense(3, nil), p)
	assert.Error(t, err, "length mismatch must fail")

	bad := mat.NewVecDense(2, []float64{0.3, 1.5})
	_, err = metrics.NewResult(y, y, bad)
	assert.Error(t, err, "out-of-range probability must fail")
}

func TestEvaluateDegenerateMetricsDoNotAbort(t *testing.T) {
	// All predictions negative: precision and F-measure are undefined,
	// but the evaluation still completes.
	yTrue := mat.NewVecDense(4, []float64{1, 0, 1, 0})
	yPred := mat.NewVecDense(4, nil)
	prob := mat.NewVecDense(4, []float64{0.1, 0.2, 0.3, 0.4})

	result, err := metrics.NewResult(yTrue, yPred, prob)
	require.NoError(t, err)

	report, err := result.Evaluate()
	require.NoError(t, err)

	assert.True(t, math.IsNaN(report.Precision))
	assert.True(t, math.IsNaN(report.FMeasure))
	assert.False(t, math.IsNaN(report.Accuracy))
	assert.False(t, math.IsNaN(report.AUC))
}
