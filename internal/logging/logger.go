// Package logging provides the diagnostic log stream for blurbs using zerolog.
// On a terminal it writes human-readable console output; otherwise, or when
// LOG_FORMAT=json, it writes one JSON object per line. The log stream reports
// progress (which file is being read, what each change was parsed as) and is
// never part of the generated documents.
//
// Example usage:
//
//	log := logging.New(logging.Options{Level: "debug"})
//	log.Info().Str("file", name).Msg("processing blurb file")
//
//	ctx := logging.WithLogger(context.Background(), &log)
//	logging.FromContext(ctx).Debug().Msg("using logger from context")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Format names accepted by Options.Format and LOG_FORMAT.
const (
	FormatAuto    = ""
	FormatConsole = "console"
	FormatJSON    = "json"
)

var defaultLogger = New(Options{})

// Options configures New.
type Options struct {
	// Out defaults to os.Stderr.
	Out io.Writer
	// Level is a zerolog level name. Empty falls back to LOG_LEVEL, then info.
	Level string
	// Format is console, json, or empty to pick console on a terminal.
	// LOG_FORMAT overrides an empty Format.
	Format string
	// NoColor disables console colors. NO_COLOR in the environment also does.
	NoColor bool
}

// New creates a logger from opts.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	format := opts.Format
	if format == FormatAuto {
		format = strings.ToLower(os.Getenv("LOG_FORMAT"))
	}
	if format == FormatAuto {
		format = FormatJSON
		if isTerminal(out) {
			format = FormatConsole
		}
	}

	if format == FormatConsole {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    opts.NoColor || os.Getenv("NO_COLOR") != "",
		}
	}

	level := parseLevel(opts.Level)
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()

	// Add caller information in debug mode
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// parseLevel resolves a level name, consulting LOG_LEVEL and DEBUG when empty.
func parseLevel(name string) zerolog.Level {
	if name == "" {
		name = os.Getenv("LOG_LEVEL")
	}
	if name == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
