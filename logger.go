package consumer

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the logging seam the consumer core writes through. Any
// implementation satisfying this one method works, same idea as the
// teacher's own Logger interface around log.Default().
type Logger interface {
	Printf(format string, v ...any)
}

var pkgLogger atomic.Pointer[Logger]

func init() {
	var l Logger = newDefaultLogger()
	pkgLogger.Store(&l)
}

// SetLogger replaces the package-wide default logger. Safe to call
// concurrently with running consumers; it takes effect for subsequent
// log calls only.
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	pkgLogger.Store(&logger)
}

func logf(format string, v ...any) {
	if p := pkgLogger.Load(); p != nil {
		(*p).Printf(format, v...)
	}
}

// defaultLogger adapts slog to the Logger interface. Level is read once
// from MLT_LOG_LEVEL (debug|info|warn|error) at package init, matching
// the env-seeded-once approach the property bag uses for
// MLT_NORMALISATION/MLT_TEST_CARD.
type defaultLogger struct {
	sl *slog.Logger
}

func newDefaultLogger() *defaultLogger {
	level := detectLogLevel()
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &defaultLogger{sl: slog.New(handler)}
}

func detectLogLevel() slog.Level {
	switch os.Getenv("MLT_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (d *defaultLogger) Printf(format string, v ...any) {
	d.sl.Info(fmt.Sprintf(format, v...))
}
