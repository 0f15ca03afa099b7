package log

import (
	"io"
	"log/slog"
	"os"

	gethlog "github.com/ethereum/go-ethereum/log"
)

type Logger = gethlog.Logger

const DefaultVerbosity = 3

func New(ctx ...interface{}) Logger {
	return gethlog.Root().New(ctx...)
}

func Root() Logger {
	return gethlog.Root()
}

// SetVerbosity installs a terminal handler on the root logger.
// Verbosity follows the usual scale: 0 crit, 1 error, 2 warn, 3 info, 4 debug, 5 trace.
func SetVerbosity(verbosity int) {
	SetOutput(os.Stderr, verbosity)
}

func SetOutput(w io.Writer, verbosity int) {
	gethlog.SetDefault(gethlog.NewLogger(gethlog.NewTerminalHandlerWithLevel(w, levelFromVerbosity(verbosity), false)))
}

func levelFromVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return gethlog.LevelCrit
	case verbosity == 1:
		return gethlog.LevelError
	case verbosity == 2:
		return gethlog.LevelWarn
	case verbosity == 3:
		return gethlog.LevelInfo
	case verbosity == 4:
		return gethlog.LevelDebug
	default:
		return gethlog.LevelTrace
	}
}

func Trace(msg string, ctx ...interface{}) {
	gethlog.Root().Trace(msg, ctx...)
}

func Debug(msg string, ctx ...interface{}) {
	gethlog.Root().Debug(msg, ctx...)
}

func Info(msg string, ctx ...interface{}) {
	gethlog.Root().Info(msg, ctx...)
}

func Warn(msg string, ctx ...interface{}) {
	gethlog.Root().Warn(msg, ctx...)
}

func Error(msg string, ctx ...interface{}) {
	gethlog.Root().Error(msg, ctx...)
}

func Crit(msg string, ctx ...interface{}) {
	gethlog.Root().Crit(msg, ctx...)
}
