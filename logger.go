package ictx

import (
	"log/slog"
	"os"
)

var logLevel = new(slog.LevelVar)

// ConfigureLogging sets up the global default logger with a TextHandler and
// configures the log level from the IC_TX_LOG_LEVEL environment variable.
// Defaults to Info if unset.
//
// Call this once at process startup if you want the default logging
// configuration; the engine logs transaction lifecycle events at Debug
// regardless of whether this has been called (slog's default handler just
// discards anything below its own default level until you do).
func ConfigureLogging() {
	logLevel.Set(slog.LevelInfo)

	switch os.Getenv("IC_TX_LOG_LEVEL") {
	case "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "WARN":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// SetLogLevel sets the logging level for the logger configured by
// ConfigureLogging.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}
