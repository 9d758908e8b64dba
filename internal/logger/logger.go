// Package logger builds the zerolog loggers used by the store and the runner.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/randel-bjorkquist/pluralsight/internal/result"
)

const (
	permission = 0664
)

// LogBuild collects logger settings
type LogBuild struct {
	writer  io.Writer
	path    string
	level   zerolog.Level
	console bool
}

// LogData is a built logger and the file it writes to, if any
type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

// New starts a builder writing JSON at info level to stderr
func New() *LogBuild {
	return &LogBuild{writer: os.Stderr, level: zerolog.InfoLevel}
}

// FromPath appends to a log file instead of the writer
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

// FromWriter writes to w
func (build *LogBuild) FromWriter(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// Level sets the minimum level
func (build *LogBuild) Level(level zerolog.Level) *LogBuild {
	build.level = level
	return build
}

// Console switches to human readable output
func (build *LogBuild) Console(on bool) *LogBuild {
	build.console = on
	return build
}

// Make builds the logger
func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	writer := build.writer
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(logData.LogFile)
	}
	if build.console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}
	}
	logData.Logger = zerolog.New(writer).Level(build.level).With().Timestamp().Logger()
	return logData, nil
}

// Close closes the log file, if one was opened
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}

// ParseLevel maps a config value to a level; unknown values mean info
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Messages writes every message of msgs to one log line per message, at a
// level matching its severity.
func Messages(log zerolog.Logger, msgs *result.MessageCollection) {
	for _, m := range msgs.All() {
		evt := log.WithLevel(levelFor(m.Type()))
		if m.Code() != "" {
			evt = evt.Str("code", m.Code())
		}
		evt.Time("at", m.Timestamp()).Str("type", m.Type().String()).Msg(m.Text())
	}
}

func levelFor(t result.MessageType) zerolog.Level {
	switch t {
	case result.TypeError:
		return zerolog.ErrorLevel
	case result.TypeWarning:
		return zerolog.WarnLevel
	case result.TypeInformation, result.TypeSuccess:
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

// Nop returns a disabled logger
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
