// Package log provides the structured logger shared by every package in
// this module. It wraps zerolog with the key-value helpers used throughout
// the shuffle/deal state machine and the client orchestrator.
package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	// RFC3339Milli is like time.RFC3339Nano but with fixed-width millisecond decimals.
	RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"
)

var (
	log   zerolog.Logger
	logMu sync.RWMutex
)

func init() {
	// A conservative built-in default so packages and tests that never
	// call Init explicitly still get a working logger. Callers that want
	// $MPOKER_LOG_LEVEL honored go through config.Load and call Init with
	// its Log.Level/Log.Output instead of this package reading the
	// environment itself.
	Init(LogLevelError, "stderr")
}

// Logger returns the current global logger.
func Logger() *zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	l := log
	return &l
}

func setLogger(l zerolog.Logger) {
	logMu.Lock()
	log = l
	logMu.Unlock()
}

// Init (re)configures the global logger. output is "stdout", "stderr", or a
// file path.
func Init(level, output string) {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			panic(fmt.Sprintf("cannot open log output %q: %v", output, err))
		}
		out = f
	}
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: RFC3339Milli}

	logger := zerolog.New(cw).With().Timestamp().Caller().Logger()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerolog.CallerSkipFrameCount = 3
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return fmt.Sprintf("%s/%s:%d", path.Base(path.Dir(file)), path.Base(file), line)
	}

	switch strings.ToLower(level) {
	case LogLevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LogLevelInfo:
		logger = logger.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LogLevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("invalid log level: %q", level))
	}

	setLogger(logger)
	logger.Info().Msgf("logger initialized at level %s, output %s", level, output)
}

// Level returns the current log level name.
func Level() string {
	switch Logger().GetLevel() {
	case zerolog.DebugLevel:
		return LogLevelDebug
	case zerolog.WarnLevel:
		return LogLevelWarn
	case zerolog.ErrorLevel:
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Debug sends a debug level log message.
func Debug(args ...any) { Logger().Debug().Msg(fmt.Sprint(args...)) }

// Info sends an info level log message.
func Info(args ...any) { Logger().Info().Msg(fmt.Sprint(args...)) }

// Warn sends a warn level log message.
func Warn(args ...any) { Logger().Warn().Msg(fmt.Sprint(args...)) }

// Error sends an error level log message.
func Error(args ...any) { Logger().Error().Msg(fmt.Sprint(args...)) }

// Fatal logs at fatal level with a stack trace; zerolog then exits the
// process, so the trailing panic is never reached.
func Fatal(args ...any) {
	Logger().Fatal().Msg(fmt.Sprint(args...) + "\n" + string(debug.Stack()))
	panic("unreachable")
}

// Debugw sends a debug level log message with key-value pairs.
func Debugw(msg string, keyvalues ...any) { Logger().Debug().Fields(keyvalues).Msg(msg) }

// Infow sends an info level log message with key-value pairs.
func Infow(msg string, keyvalues ...any) { Logger().Info().Fields(keyvalues).Msg(msg) }

// Warnw sends a warning level log message with key-value pairs.
func Warnw(msg string, keyvalues ...any) { Logger().Warn().Fields(keyvalues).Msg(msg) }

// Errorw sends an error level log message carrying err.
func Errorw(err error, msg string) { Logger().Error().Err(err).Msg(msg) }
