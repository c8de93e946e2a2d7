// Package logger builds configured log/slog loggers for the SDK.
//
// The factory supports JSON output for production log aggregation and text
// output for development, selected via options or the LOG_FORMAT / LOG_LEVEL
// environment variables. Attribute helpers (Error, Component, UserID, ...)
// keep log field names consistent across packages.
//
//	log := logger.New(
//	    logger.WithTextFormatter(),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(slog.String("service", "promptpal")),
//	)
//
// SDK components accept a *slog.Logger and default to a discard handler, so
// logging is always opt-in at the call site.
package logger
