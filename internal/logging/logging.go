package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is the process-wide zerolog logger. It is usable before Init is
// called and then writes JSON to stdout at info level.
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init sets up the global zerolog logger on stdout. Level is parsed from
// the given string (e.g. "debug", "info", "warn", "error"). Output is
// structured JSON unless the file is a terminal, in which case a console
// writer is used.
func Init(level, service string) {
	InitFile(os.Stdout, level, service)
}

// InitFile is Init writing to f. The CLI logs to stderr so tables on
// stdout stay clean.
func InitFile(f *os.File, level, service string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	var out io.Writer = f
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}

	Logger = New(out, service)
}

// New builds a logger tagged with the service name.
func New(w io.Writer, service string) zerolog.Logger {
	return zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Component returns a child logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
