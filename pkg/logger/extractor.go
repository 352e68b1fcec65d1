package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDExtractor surfaces the router's request ID on every log line
// written within a request's context.
func RequestIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			return slog.String("request_id", reqID), true
		}
		return slog.Attr{}, false
	}
}
