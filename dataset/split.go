package dataset

import (
	"math"
	"math/rand"
	"sort"

	medErrors "github.com/statlab/medscreen/pkg/errors"
	"github.com/statlab/medscreen/pkg/log"
)

// SplitConfig controls the stratified train/test partition.
type SplitConfig struct {
	// TrainFraction is the share of each outcome stratum assigned to the
	// training subset. Must be in (0, 1) exclusive.
	TrainFraction float64

	// Seed drives the shuffle. The same seed and input dataset always
	// produce the identical partition.
	Seed int64
}

// DefaultSplitConfig mirrors the conventional 75/25 split.
var DefaultSplitConfig = SplitConfig{TrainFraction: 0.75, Seed: 123}

// Split is a disjoint cover of a Dataset.
type Split struct {
	Train *Dataset
	Test  *Dataset
}

// StratifiedSplit partitions ds into train and test subsets, preserving
// the outcome-class proportions of the full dataset in both subsets.
//
// Each stratum (positive rows, negative rows) is shuffled with the seeded
// source and cut at round(TrainFraction * stratum size). Row order within
// each subset follows the original dataset order, so the partition is a
// pure function of (dataset, config).
func StratifiedSplit(ds *Dataset, cfg SplitConfig) (_ *Split, err error) {
	defer medErrors.Recover(&err, "dataset.StratifiedSplit")

	if ds.Len() == 0 {
		return nil, medErrors.NewModelError("dataset.StratifiedSplit",
			"empty data", medErrors.ErrEmptyData)
	}
	if cfg.TrainFraction <= 0 || cfg.TrainFraction >= 1 {
		return nil, medErrors.NewValueError("dataset.StratifiedSplit",
			"train fraction must be in (0, 1)")
	}

	var pos, neg []int
	for i := 0; i < ds.Len(); i++ {
		if ds.At(i).Positive {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	if len(pos) < 2 || len(neg) < 2 {
		return nil, medErrors.NewValueError("dataset.StratifiedSplit",
			"each outcome class needs at least 2 observations to stratify")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var trainIdx, testIdx []int
	for _, stratum := range [][]int{pos, neg} {
		shuffled := make([]int, len(stratum))
		copy(shuffled, stratum)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		nTrain := int(math.Round(cfg.TrainFraction * float64(len(stratum))))
		// Keep both subsets non-empty within the stratum.
		if nTrain == 0 {
			nTrain = 1
		}
		if nTrain == len(stratum) {
			nTrain = len(stratum) - 1
		}

		trainIdx = append(trainIdx, shuffled[:nTrain]...)
		testIdx = append(testIdx, shuffled[nTrain:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	split := &Split{
		Train: ds.subset(trainIdx),
		Test:  ds.subset(testIdx),
	}

	log.GetLoggerWithName("dataset").Info("Dataset partitioned",
		log.OperationKey, log.OperationSplit,
		log.PhaseKey, log.PhaseData,
		log.SeedKey, cfg.Seed,
		log.RowsKey, ds.Len(),
		"train", split.Train.Len(),
		"test", split.Test.Len(),
	)

	return split, nil
}
