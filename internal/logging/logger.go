// Package logging provides the category-scoped loggers that
// internal/env, internal/audit, internal/watch, and cmd/retenetctl log
// through, each concern under a Category of its own rather than a
// single undifferentiated stream, the same division
// the teacher's logging package makes — but backed by go.uber.org/zap
// instead of a hand-rolled file writer, since the reasoning engine has
// no workspace directory of its own to rotate log files into and zap
// is already the structured-logging dependency named for the CLI
// boundary.
package logging

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Category groups log lines by which part of the engine emitted them,
// so a developer can isolate "every assert" or "every join
// activation" without grepping an undifferentiated stream.
type Category string

const (
	CategoryAssert    Category = "assert"
	CategoryRetract   Category = "retract"
	CategoryModify    Category = "modify"
	CategoryAlpha     Category = "alpha"
	CategoryBeta      Category = "beta"
	CategoryLogical   Category = "logical"
	CategoryGC        Category = "gc"
	CategoryWire      Category = "wire"
	CategoryIntegrity Category = "integrity"
	CategoryEnv       Category = "env"
	CategoryQuery     Category = "query"
	CategoryMangle    Category = "mangle"
	CategoryAudit     Category = "audit"
	CategoryWatch     Category = "watch"
)

var (
	baseMu sync.RWMutex
	base   *zap.Logger = zap.NewNop()

	loggersMu sync.RWMutex
	loggers             = make(map[Category]*Logger)
)

// Init installs the base zap logger every category logger derives
// from. Call it once at process startup (cmd/retenetctl does this
// before constructing an env.Environment); until it is called every
// Logger is a silent no-op, which keeps package tests quiet without
// needing a stub.
func Init(core *zap.Logger) {
	baseMu.Lock()
	base = core
	baseMu.Unlock()

	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()
}

// Logger is a category-tagged view onto the base zap logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

// Get returns (and caches) the Logger for category.
func Get(category Category) *Logger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	baseMu.RLock()
	core := base
	baseMu.RUnlock()

	l := &Logger{
		category: category,
		sugar:    core.Sugar().With(zap.String("category", string(category))),
	}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.sugar.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.sugar.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }

// Timer measures and logs the duration of an operation, the same
// start/stop shape as the teacher's logging.Timer.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing operation under category.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug(t.op+" completed", "elapsed", elapsed)
	return elapsed
}

// StopWithThreshold logs at warn level if elapsed exceeds threshold,
// debug otherwise.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn(t.op+" exceeded threshold", "elapsed", elapsed, "threshold", threshold)
	} else {
		Get(t.category).Debug(t.op+" completed", "elapsed", elapsed)
	}
	return elapsed
}
