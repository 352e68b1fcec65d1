// Package logger provides structured logging with context extraction and
// Sentry integration.
//
// It extends log/slog with two capabilities: automatic injection of
// request-scoped attributes pulled from context, and optional forwarding
// of warnings and errors to Sentry.
//
// A [ContextExtractor] is called on every log call, so request-scoped
// values like request IDs stay fresh:
//
//	log := logger.New(slog.LevelInfo, logger.RequestIDExtractor())
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//
// [NewWithSentry] adds Sentry on top. If the DSN is empty or init fails,
// logging continues to stdout only, so the same code path is safe in
// local development:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         cfg.Sentry.DSN,
//		Environment: cfg.Sentry.Environment,
//		MinLevel:    slog.LevelWarn,
//	}, logger.RequestIDExtractor())
//
// [LogHandlerDecorator] can wrap any slog.Handler, so extractors compose
// with custom handlers too.
package logger
