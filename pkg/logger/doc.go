// Package logger provides structured logging with context extraction and
// optional Sentry reporting.
//
// It builds on log/slog. A [ContextExtractor] pulls request-scoped values out of
// the context on every log call, and [LogHandlerDecorator] wraps any
// slog.Handler to apply them.
//
// # Usage
//
//	log := logger.New(logger.Config{Level: "debug", Format: "json"},
//		logger.RequestIDExtractor(),
//	)
//
//	ctx = logger.WithRequestID(ctx, "7f1c...")
//	log.InfoContext(ctx, "request sent", slog.String("path", "/posts"))
//	// {"level":"INFO","msg":"request sent","path":"/posts","request_id":"7f1c..."}
//
// Output defaults to stderr so the stdout of command-line tools stays usable.
//
// # Sentry
//
// When Config.SentryDSN is set, records are also sent to Sentry: errors
// become issues, warnings and errors are kept as logs. An empty DSN or a failed
// SDK init falls back to local output only.
//
// Library packages default to [NewNope] and accept a logger through options.
package logger
