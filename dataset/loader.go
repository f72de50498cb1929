package dataset

import (
	"io"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	medErrors "github.com/statlab/medscreen/pkg/errors"
	"github.com/statlab/medscreen/pkg/log"
)

// nanTokens are the cell values treated as missing measurements.
var nanTokens = []string{"", "NA", "NaN", "nan"}

// Load reads the diabetes table from a CSV file.
//
// The file must carry a header row naming the eight predictor columns and
// the outcome column. Unparseable or empty predictor cells become missing
// values on the Observation; a row whose outcome is not one of the two
// configured levels is a fatal validation error.
func Load(path string, levels Levels) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, medErrors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(f, levels)
}

// LoadReader reads the diabetes table from r. See Load.
func LoadReader(r io.Reader, levels Levels) (_ *Dataset, err error) {
	defer medErrors.Recover(&err, "dataset.LoadReader")

	logger := log.GetLoggerWithName("dataset")
	start := time.Now()

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(map[string]series.Type{OutcomeName: series.String}),
		dataframe.NaNValues(nanTokens),
	)
	if df.Error() != nil {
		return nil, medErrors.Wrap(df.Error(), "reading csv")
	}

	present := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, name := range FeatureNames {
		if !present[name] {
			return nil, medErrors.NewModelError("dataset.LoadReader",
				"column "+name, medErrors.ErrMissingColumn)
		}
	}
	if !present[OutcomeName] {
		return nil, medErrors.NewModelError("dataset.LoadReader",
			"column "+OutcomeName, medErrors.ErrMissingColumn)
	}

	n := df.Nrow()
	cols := make([][]float64, NumFeatures)
	for j, name := range FeatureNames {
		cols[j] = df.Col(name).Float()
	}
	outcomes := df.Col(OutcomeName).Records()

	obs := make([]Observation, n)
	for i := 0; i < n; i++ {
		for j := range FeatureNames {
			obs[i].Features[j] = cols[j][i]
		}
		switch outcomes[i] {
		case levels.Positive:
			obs[i].Positive = true
		case levels.Negative:
			obs[i].Positive = false
		default:
			return nil, medErrors.NewValidationError(OutcomeName,
				"outcome level must be \""+levels.Positive+"\" or \""+levels.Negative+"\"",
				outcomes[i])
		}
	}

	logger.Info("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PhaseKey, log.PhaseData,
		log.RowsKey, n,
		log.FeaturesKey, NumFeatures,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Dataset{levels: levels, obs: obs}, nil
}
