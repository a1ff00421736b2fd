// Package requestlog pins a request-scoped clock and writes one structured log
// line per request. It is operational logging only; compliance entries go
// through the audit publisher.
package requestlog

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mssola/useragent"

	"govintel/pkg/requestcontext"
)

// Middleware stores the request start time in the context so every audit entry
// written while serving the request shares one timestamp, then logs the outcome.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := requestcontext.WithTime(r.Context(), start)
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			browser, os := Client(requestcontext.UserAgent(ctx))
			logger.InfoContext(ctx, "api request",
				"request_id", requestcontext.RequestID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"ip_address", requestcontext.ClientIP(ctx),
				"browser", browser,
				"os", os,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// Client summarizes a User-Agent header as browser family and operating system.
func Client(ua string) (browser, os string) {
	if ua == "" {
		return "unknown", "unknown"
	}
	parsed := useragent.New(ua)
	if parsed.Bot() {
		return "bot", parsed.OS()
	}
	name, _ := parsed.Browser()
	if name == "" {
		name = "unknown"
	}
	os = parsed.OS()
	if os == "" {
		os = "unknown"
	}
	return name, os
}
