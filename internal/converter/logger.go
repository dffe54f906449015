// =============================================================================
// Shopify to SIE Converter - Logging
// =============================================================================
//
// The converter logs through a small interface so tests can run silent and
// the CLI can choose verbosity. The production implementation wraps zap's
// SugaredLogger.
//
// =============================================================================

package converter

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used by the converter.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// ZAP LOGGER
// =============================================================================

// zapLogger adapts a zap SugaredLogger to the Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds the standard CLI logger. With verbose set, debug lines
// are emitted as well.
func NewLogger(verbose bool) (Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &zapLogger{sugar: logger.Sugar()}, nil
}

func (l *zapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugf(msg, args...) }
func (l *zapLogger) Info(msg string, args ...interface{})  { l.sugar.Infof(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnf(msg, args...) }
func (l *zapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorf(msg, args...) }

// =============================================================================
// NOP LOGGER
// =============================================================================

// nopLogger discards everything. Used by tests and as the fallback when no
// logger is supplied.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// NopLogger returns a Logger that discards all output.
func NopLogger() Logger {
	return nopLogger{}
}
