// Package log adapts github.com/rs/zerolog to the core.Logger interface
// every other package logs through, mirroring yafaray-core's leveled
// logger (original_source/include/common/logger.h: error/warning/info/
// verbose/debug) with zerolog's structured levels standing in for that
// taxonomy (verbose collapses into info, since zerolog has no separate
// level for it).
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/yafaray-go/yafaray/pkg/core"
)

// Logger wraps a zerolog.Logger behind core.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing human-readable, colorized output to w
// (typically os.Stderr) at the given minimum level.
func New(w io.Writer, level zerolog.Level) *Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	zl := zerolog.New(console).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewDefault builds a Logger at info level writing to stderr, the
// renderer's default when no explicit verbosity was requested.
func NewDefault() *Logger {
	return New(os.Stderr, zerolog.InfoLevel)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

var _ core.Logger = (*Logger)(nil)
