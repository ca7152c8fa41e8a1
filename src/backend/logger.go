package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = newLogger(os.Stdout, os.Stderr)

// Named loggers, one per concern.
var (
	httpLog    = componentLogger("http")
	probeLog   = componentLogger("probe")
	smokeLog   = componentLogger("smoke")
	historyLog = componentLogger("history")
	cronLog    = componentLogger("cron")
)

// newLogger writes debug/info/warn to out and error and above to errOut.
func newLogger(out, errOut io.Writer) zerolog.Logger {
	writer := zerolog.MultiLevelWriter(
		levelWriter{
			Writer: zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339},
			levels: []zerolog.Level{zerolog.TraceLevel, zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel},
		},
		levelWriter{
			Writer: zerolog.ConsoleWriter{Out: errOut, TimeFormat: time.RFC3339},
			levels: []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		},
	)
	return zerolog.New(writer).With().Timestamp().Logger()
}

func componentLogger(name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// setLogLevel applies level to every logger in the process.
func setLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

type levelWriter struct {
	io.Writer
	levels []zerolog.Level
}

func (w levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	for _, l := range w.levels {
		if l == level {
			return w.Write(p)
		}
	}
	return len(p), nil
}
