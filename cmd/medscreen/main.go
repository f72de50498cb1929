// Command medscreen runs the diabetes screening analysis end to end:
// load the tabular dataset, drop incomplete records, split into stratified
// train/test partitions, fit a binomial GLM with a logit link, predict on
// the held-out partition, and print the evaluation metric battery plus a
// ROC curve plot.
//
// The pipeline runs exactly once per invocation. Data and fitting errors
// are fatal and name the failing stage; degenerate metric denominators
// only NaN the affected metric.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/statlab/medscreen/dataset"
	"github.com/statlab/medscreen/glm"
	"github.com/statlab/medscreen/metrics"
	"github.com/statlab/medscreen/pkg/log"
	"github.com/statlab/medscreen/report"
)

func main() {
	var (
		input     = flag.String("input", "diabetes.csv", "path to the input CSV file")
		positive  = flag.String("positive", dataset.DefaultLevels.Positive, "outcome level treated as the positive class")
		negative  = flag.String("negative", dataset.DefaultLevels.Negative, "outcome level treated as the negative class")
		seed      = flag.Int64("seed", dataset.DefaultSplitConfig.Seed, "random seed for the train/test split")
		trainFrac = flag.Float64("train-frac", dataset.DefaultSplitConfig.TrainFraction, "fraction of rows assigned to the training subset")
		rocPath   = flag.String("roc", "roc.png", "output path for the ROC curve plot")
		verbose   = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		log.SetLevel(zerolog.DebugLevel)
	}
	logger := log.GetLoggerWithName("medscreen")

	levels := dataset.Levels{Positive: *positive, Negative: *negative}

	raw, err := dataset.Load(*input, levels)
	if err != nil {
		fatal(logger, "load", err)
	}

	clean := raw.DropMissing()
	logger.Info("Incomplete records dropped",
		log.OperationKey, log.OperationClean,
		log.RowsKey, clean.Len(),
		log.DroppedKey, raw.Len()-clean.Len(),
	)
	if clean.Len() == 0 {
		fatal(logger, "clean", fmt.Errorf("no complete records remain after cleaning"))
	}

	split, err := dataset.StratifiedSplit(clean, dataset.SplitConfig{
		TrainFraction: *trainFrac,
		Seed:          *seed,
	})
	if err != nil {
		fatal(logger, "split", err)
	}

	XTrain, err := split.Train.Features()
	if err != nil {
		fatal(logger, "split", err)
	}
	yTrain, err := split.Train.Labels()
	if err != nil {
		fatal(logger, "split", err)
	}

	model := glm.NewLogit(glm.WithTerms(dataset.FeatureNames[:]))
	if err := model.Fit(XTrain, yTrain); err != nil {
		fatal(logger, "fit", err)
	}

	summary, err := model.Summary()
	if err != nil {
		fatal(logger, "fit", err)
	}

	XTest, err := split.Test.Features()
	if err != nil {
		fatal(logger, "predict", err)
	}
	yTest, err := split.Test.Labels()
	if err != nil {
		fatal(logger, "predict", err)
	}
	probs, err := model.PredictProba(XTest)
	if err != nil {
		fatal(logger, "predict", err)
	}
	preds, err := model.Predict(XTest)
	if err != nil {
		fatal(logger, "predict", err)
	}

	result, err := metrics.NewResult(yTest, preds, probs)
	if err != nil {
		fatal(logger, "evaluate", err)
	}
	rep, err := result.Evaluate()
	if err != nil {
		fatal(logger, "evaluate", err)
	}

	fmt.Printf("Model: %s ~ all predictors (binomial, logit link)\n", dataset.OutcomeName)
	fmt.Printf("Positive class: %q, training rows: %d, test rows: %d\n\n",
		levels.Positive, split.Train.Len(), split.Test.Len())

	if err := report.WriteCoefficientTable(os.Stdout, summary); err != nil {
		fatal(logger, "report", err)
	}
	fmt.Println()
	if err := report.WriteOddsRatioTable(os.Stdout, summary); err != nil {
		fatal(logger, "report", err)
	}
	fmt.Println()
	if err := report.WriteMetricsTable(os.Stdout, rep); err != nil {
		fatal(logger, "report", err)
	}

	cfg := report.DefaultPlotConfig
	cfg.Title = fmt.Sprintf("ROC curve (%s)", dataset.OutcomeName)
	if err := report.SaveROCPlot(rep.ROC, rep.AUC, *rocPath, cfg); err != nil {
		fatal(logger, "plot", err)
	}
	fmt.Printf("\nROC curve saved to %s\n", *rocPath)
}

func fatal(logger log.Logger, stage string, err error) {
	logger.Error("Pipeline failed", "stage", stage, "error", err.Error())
	os.Exit(1)
}
