// =============================================================================
// Sales Tax Receipts - Logger Module
// =============================================================================
//
// This module builds the application logger on top of zap. Entries use the
// console encoding with ISO8601 timestamps and capitalized levels.
//
// LEVELS:
//   debug : skipped basket lines, parsed entry counts
//   info  : processed files and written receipts
//   warn  : archive failures and other non-fatal problems
//   error : files that could not be processed
//
// =============================================================================

// Package logger provides the printf-style logger used by the CLI and the
// batch processor.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger to provide printf-style logging
type Logger struct {
	*zap.SugaredLogger
}

// New creates a console logger at the given level ("debug", "info", "warn",
// "error"). Output goes to logFile when set, stderr otherwise.
func New(level string, logFile string) (*Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Development = false
	config.DisableStacktrace = true
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	if logFile != "" {
		config.OutputPaths = []string{logFile}
		config.ErrorOutputPaths = []string{logFile}
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
	}, nil
}

// NewNop returns a logger that discards everything. Useful in tests.
func NewNop() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
	}
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
