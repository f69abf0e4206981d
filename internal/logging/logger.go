// Package logging builds the zerolog logger used by the pawpad CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for the optional log file.
const (
	LogMaxSizeMB   = 10
	LogMaxBackups  = 3
	LogMaxAgeDays  = 28
	LogCompress    = true
	logTimeFormat  = time.Kitchen
	componentField = "component"
)

// Options selects level and sinks.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level   string
	Verbose bool
	Quiet   bool
	// File, when set, receives JSON records through a rotating writer.
	File string
}

// SelectLevel resolves the effective level. Verbose wins over Quiet, and both
// win over the configured level.
func SelectLevel(opts Options) zerolog.Level {
	switch {
	case opts.Verbose:
		return zerolog.DebugLevel
	case opts.Quiet:
		return zerolog.WarnLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// New creates a logger writing to w. When w is a terminal and NO_COLOR is not
// set, records are rendered with zerolog.ConsoleWriter; otherwise they are JSON.
// The returned closer releases the log file and is never nil.
func New(w io.Writer, opts Options) (zerolog.Logger, io.Closer) {
	console := selectOutput(w)
	var closer io.Closer = nopCloser{}

	writer := console
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    LogMaxSizeMB,
			MaxBackups: LogMaxBackups,
			MaxAge:     LogMaxAgeDays,
			Compress:   LogCompress,
		}
		closer = lj
		writer = zerolog.MultiLevelWriter(console, lj)
	}

	logger := zerolog.New(writer).Level(SelectLevel(opts)).With().Timestamp().Logger()
	return logger, closer
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str(componentField, name).Logger()
}

func selectOutput(w io.Writer) io.Writer {
	f, ok := w.(*os.File)
	if ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: logTimeFormat}
	}
	return w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
