// Package report renders the analysis outputs: the fitted-model
// coefficient tables, the evaluation metric table, and the ROC curve
// plot. All rendering configuration is explicit; nothing in this package
// keeps process-wide state.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/statlab/medscreen/glm"
	"github.com/statlab/medscreen/metrics"
)

// WriteCoefficientTable prints the coefficient estimates with their Wald
// statistics, followed by the deviance summary.
func WriteCoefficientTable(w io.Writer, s *glm.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Term\tEstimate\tStd.Error\tz value\tPr(>|z|)")
	for i := range s.Terms {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.3f\t%.4g\n",
			s.Terms[i], s.Estimates[i], s.StdErrors[i], s.ZStats[i], s.PValues[i])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nNull deviance: %.2f\n", s.NullDeviance)
	fmt.Fprintf(w, "Residual deviance: %.2f\n", s.Deviance)
	fmt.Fprintf(w, "AIC: %.2f\n", s.AIC)
	fmt.Fprintf(w, "McFadden R2: %.4f\n", s.McFaddenR2)
	fmt.Fprintf(w, "Observations: %d, iterations: %d\n", s.NObs, s.Iterations)
	return nil
}

// WriteOddsRatioTable prints the exponentiated coefficients with their
// 95% confidence intervals.
func WriteOddsRatioTable(w io.Writer, s *glm.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Term\tOdds Ratio\t2.5%\t97.5%")
	for _, or := range s.OddsRatios() {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\n", or.Term, or.Ratio, or.Lower, or.Upper)
	}
	return tw.Flush()
}

// WriteMetricsTable prints the confusion matrix and the scalar metric
// battery of an evaluation report.
func WriteMetricsTable(w io.Writer, r *metrics.Report) error {
	cm := r.Confusion

	fmt.Fprintln(w, "Confusion matrix (rows: actual, cols: predicted):")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tpred pos\tpred neg")
	fmt.Fprintf(tw, "actual pos\t%d\t%d\n", cm.TP, cm.FN)
	fmt.Fprintf(tw, "actual neg\t%d\t%d\n", cm.FP, cm.TN)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		name  string
		value float64
	}{
		{"Accuracy", r.Accuracy},
		{"Sensitivity", r.Sensitivity},
		{"Specificity", r.Specificity},
		{"Precision", r.Precision},
		{"Neg. predictive value", r.NegativePredictiveValue},
		{"F-measure", r.FMeasure},
		{"Balanced accuracy", r.BalancedAccuracy},
		{"Prevalence", r.Prevalence},
		{"Cohen's Kappa", r.Kappa},
		{"Matthews corr. coef.", r.MCC},
		{"ROC-AUC", r.AUC},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%.4f\n", row.name, row.value)
	}
	return tw.Flush()
}
