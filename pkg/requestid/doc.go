// Package requestid attaches a correlation id to every inbound request so a
// delivery's log lines (probe, dispatch, fallback write) can be joined.
//
//	r.Use(requestid.Middleware)
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
