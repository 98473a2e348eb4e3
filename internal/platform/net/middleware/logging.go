package middleware

import (
	"net"
	"net/http"

	"grantdir/internal/platform/logger"
	pnet "grantdir/internal/platform/net"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestContext copies the chi request id and the caller address onto the request context
// so logger.C and pnet getters see them; mount after RequestID and RealIP
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := chimw.GetReqID(r.Context())
		ip := clientIP(r)
		ctx := logger.WithRequest(r.Context(), reqID, ip)
		ctx = pnet.WithRequest(ctx, reqID, ip)
		if reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP strips the port RemoteAddr carries before RealIP rewrites it
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// routePattern returns the matched chi pattern, or "unmatched" so label sets stay bounded
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
