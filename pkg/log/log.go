// Package log provides the structured logging facade used by every
// pipeline stage.
//
// The package wraps rs/zerolog behind a small key/value interface so that
// estimators and data stages log uniformly:
//
//	logger := log.GetLoggerWithName("glm").With(
//		log.ModelNameKey, "Logit",
//		log.ComponentKey, "glm",
//	)
//	logger.Info("Training started",
//		log.OperationKey, log.OperationFit,
//		log.SamplesKey, n,
//	)
//
// Output goes to stderr. The level defaults to Info and is process-wide;
// SetLevel exists for the CLI's -v flag and for silencing logs in tests.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Structured logging keys shared across the pipeline.
const (
	ModelNameKey  = "model"
	ComponentKey  = "component"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	DurationMsKey = "duration_ms"
	SeedKey       = "seed"
	RowsKey       = "rows"
	DroppedKey    = "dropped"
	PredsKey      = "predictions"
	IterationsKey = "iterations"
)

// Operation values for OperationKey.
const (
	OperationLoad     = "load"
	OperationClean    = "clean"
	OperationSplit    = "split"
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"
	OperationPlot     = "plot"
)

// Phase values for PhaseKey.
const (
	PhaseData       = "data"
	PhaseTraining   = "training"
	PhaseInference  = "inference"
	PhaseEvaluation = "evaluation"
)

// Logger is the structured logging interface used throughout medscreen.
// Fields are passed as alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

var (
	mu         sync.RWMutex
	baseOutput io.Writer = os.Stderr
	baseLevel            = zerolog.InfoLevel
)

// SetLevel sets the process-wide log level.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	baseLevel = level
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	baseOutput = w
}

// GetLogger returns a Logger without a component name.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	zl := zerolog.New(baseOutput).Level(baseLevel).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

// GetLoggerWithName returns a Logger tagged with a subsystem name.
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	zl := zerolog.New(baseOutput).Level(baseLevel).With().
		Timestamp().
		Str("logger", name).
		Logger()
	return &zeroLogger{zl: zl}
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Debug(), msg, keysAndValues)
}

func (l *zeroLogger) Info(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Info(), msg, keysAndValues)
}

func (l *zeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Warn(), msg, keysAndValues)
}

func (l *zeroLogger) Error(msg string, keysAndValues ...interface{}) {
	emit(l.zl.Error(), msg, keysAndValues)
}

func (l *zeroLogger) With(keysAndValues ...interface{}) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, keysAndValues[i+1])
	}
	zl := ctx.Logger()
	return &zeroLogger{zl: zl}
}

func emit(ev *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	ev.Msg(msg)
}
