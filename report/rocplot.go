package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/statlab/medscreen/metrics"
	medErrors "github.com/statlab/medscreen/pkg/errors"
	"github.com/statlab/medscreen/pkg/log"
)

// PlotConfig carries the explicit plotting options for the ROC figure.
type PlotConfig struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultPlotConfig is a square 6-inch figure.
var DefaultPlotConfig = PlotConfig{
	Title:  "ROC curve",
	Width:  6 * vg.Inch,
	Height: 6 * vg.Inch,
}

// SaveROCPlot renders the ROC curve with a dashed diagonal reference line
// and writes it to path. The output format follows the file extension
// (.png, .pdf, .svg).
func SaveROCPlot(curve metrics.Curve, auc float64, path string, cfg PlotConfig) (err error) {
	defer medErrors.Recover(&err, "report.SaveROCPlot")

	if len(curve) == 0 {
		return medErrors.NewValueError("report.SaveROCPlot", "empty ROC curve")
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	pts := make(plotter.XYs, len(curve))
	for i, point := range curve.Points() {
		pts[i].X = point.FPR
		pts[i].Y = point.TPR
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return medErrors.Wrap(err, "building ROC line")
	}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("AUC = %.3f", auc), line)

	// Chance-level reference.
	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return medErrors.Wrap(err, "building reference line")
	}
	diag.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diag)

	if err := p.Save(cfg.Width, cfg.Height, path); err != nil {
		return medErrors.Wrap(err, "saving ROC plot")
	}

	log.GetLoggerWithName("report").Info("ROC plot saved",
		log.OperationKey, log.OperationPlot,
		"path", path,
	)
	return nil
}
