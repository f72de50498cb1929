// Package dataset holds the tabular data model for the screening pipeline:
// loading the diabetes table from CSV, dropping incomplete records, and
// splitting the result into stratified train/test partitions.
//
// A Dataset is immutable once constructed. Cleaning and splitting never
// mutate their input; they return new Datasets.
package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	medErrors "github.com/statlab/medscreen/pkg/errors"
)

// NumFeatures is the number of numeric predictor columns.
const NumFeatures = 8

// FeatureNames lists the predictor columns in design-matrix order.
var FeatureNames = [NumFeatures]string{
	"pregnant",
	"glucose",
	"pressure",
	"triceps",
	"insulin",
	"mass",
	"pedigree",
	"age",
}

// OutcomeName is the categorical outcome column.
const OutcomeName = "diabetes"

// Levels fixes the two outcome categories and which of them is the
// positive (modeled) class. The positive level is an explicit parameter of
// the loader/fitter boundary, never implicit state: coefficients and
// predicted probabilities are always relative to Levels.Positive.
type Levels struct {
	Positive string
	Negative string
}

// DefaultLevels matches the diabetes dataset encoding.
var DefaultLevels = Levels{Positive: "pos", Negative: "neg"}

// Observation is one record: eight numeric predictors and a binary
// outcome. A NaN feature value marks a missing measurement.
type Observation struct {
	Features [NumFeatures]float64
	Positive bool
}

// HasMissing reports whether any predictor value is missing.
func (o Observation) HasMissing() bool {
	for _, v := range o.Features {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Dataset is an ordered, immutable collection of Observations.
type Dataset struct {
	levels Levels
	obs    []Observation
}

// New creates a Dataset from observations. The slice is copied.
func New(levels Levels, obs []Observation) *Dataset {
	cp := make([]Observation, len(obs))
	copy(cp, obs)
	return &Dataset{levels: levels, obs: cp}
}

// Len returns the number of observations.
func (d *Dataset) Len() int { return len(d.obs) }

// Levels returns the outcome level configuration.
func (d *Dataset) Levels() Levels { return d.levels }

// At returns the i-th observation.
func (d *Dataset) At(i int) Observation { return d.obs[i] }

// PositiveCount returns the number of positive-outcome observations.
func (d *Dataset) PositiveCount() int {
	n := 0
	for _, o := range d.obs {
		if o.Positive {
			n++
		}
	}
	return n
}

// PositiveFraction returns the positive-class prevalence, or NaN for an
// empty dataset.
func (d *Dataset) PositiveFraction() float64 {
	if len(d.obs) == 0 {
		return math.NaN()
	}
	return float64(d.PositiveCount()) / float64(len(d.obs))
}

// DropMissing returns a new Dataset containing only complete
// observations. An empty result is valid; callers that cannot proceed on
// an empty dataset check for it themselves.
func (d *Dataset) DropMissing() *Dataset {
	kept := make([]Observation, 0, len(d.obs))
	for _, o := range d.obs {
		if !o.HasMissing() {
			kept = append(kept, o)
		}
	}
	return &Dataset{levels: d.levels, obs: kept}
}

// IsComplete reports whether no observation has a missing value.
func (d *Dataset) IsComplete() bool {
	for _, o := range d.obs {
		if o.HasMissing() {
			return false
		}
	}
	return true
}

// Features exports the predictor columns as an n x NumFeatures design
// matrix for the fitter.
func (d *Dataset) Features() (*mat.Dense, error) {
	if len(d.obs) == 0 {
		return nil, medErrors.NewModelError("Dataset.Features", "empty data", medErrors.ErrEmptyData)
	}
	X := mat.NewDense(len(d.obs), NumFeatures, nil)
	for i, o := range d.obs {
		for j, v := range o.Features {
			X.Set(i, j, v)
		}
	}
	return X, nil
}

// Labels exports the outcome as a 0/1 vector, 1 for the positive level.
func (d *Dataset) Labels() (*mat.VecDense, error) {
	if len(d.obs) == 0 {
		return nil, medErrors.NewModelError("Dataset.Labels", "empty data", medErrors.ErrEmptyData)
	}
	y := mat.NewVecDense(len(d.obs), nil)
	for i, o := range d.obs {
		if o.Positive {
			y.SetVec(i, 1.0)
		}
	}
	return y, nil
}

// subset builds a new Dataset from the given row indices.
func (d *Dataset) subset(indices []int) *Dataset {
	obs := make([]Observation, len(indices))
	for i, idx := range indices {
		obs[i] = d.obs[idx]
	}
	return &Dataset{levels: d.levels, obs: obs}
}
