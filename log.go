package focus

import (
	"log/slog"
	"os"
)

// focusLogLevel controls the log level for focus debug logging.
// Default is LevelInfo, which suppresses Debug messages.
// SetVerbose(true) sets it to LevelDebug.
var focusLogLevel = new(slog.LevelVar)

// SetVerbose enables or disables verbose/debug logging for the focus tree.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		focusLogLevel.Set(slog.LevelDebug)
	} else {
		focusLogLevel.Set(slog.LevelInfo)
	}
}

// focusVerbose returns true if debug logging is enabled.
func focusVerbose() bool {
	return focusLogLevel.Level() <= slog.LevelDebug
}

// focusLogger is the logger for focus resolution debugging.
var focusLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: focusLogLevel}))

// SetLogger replaces the package logger. Hosts that already own a slog
// handler (a terminal UI writing to a file, for example) route focus logs
// through it. Passing nil restores the stderr logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: focusLogLevel}))
	}
	focusLogger = l
}
