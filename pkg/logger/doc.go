// Package logger builds the service's *slog.Logger.
//
// New wraps a JSON or text handler with a context-aware decorator that
// appends attributes derived from the context of each call (a request id,
// for example) and replaces the values of secret-like keys with
// "[REDACTED]". Environment presets pick format and level:
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "notifyd"),
//	    logger.WithLevelName(os.Getenv("LOG_LEVEL")),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "report delivered",
//	    logger.Recipient(addr),
//	    logger.Duration(elapsed),
//	)
//
// The attribute helpers in attr.go keep key names consistent across
// packages; Error and Errors return an empty attribute for nil errors so
// they can be passed unconditionally.
package logger
