package metadata

import (
	"net"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"govintel/pkg/requestcontext"
)

// UnknownIP is recorded when no address can be derived from the request.
const UnknownIP = "unknown"

// ClientMetadata copies the client IP, User-Agent and chi request id into the
// context for audit entries. Mount it after chimw.RequestID.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		if reqID := chimw.GetReqID(ctx); reqID != "" {
			ctx = requestcontext.WithRequestID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest resolves the caller address. The first X-Forwarded-For
// hop wins, then X-Real-IP, then RemoteAddr. Header values that are not IPs
// are ignored.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}
	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if ip := parseIP(r.RemoteAddr); ip != "" {
		return ip
	}
	return UnknownIP
}

func parseIP(v string) string {
	v = strings.TrimSpace(v)
	if net.ParseIP(v) == nil {
		return ""
	}
	return v
}
