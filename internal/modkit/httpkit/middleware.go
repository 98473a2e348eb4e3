package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"grantdir/internal/platform/net/middleware"
)

// StackOptions tunes the shared API middleware stack
type StackOptions struct {
	// CORSOrigins are the allowed browser origins, empty allows none
	CORSOrigins []string
	// RateLimit is applied per client address, zero RPS disables it
	RateLimit middleware.RateLimitOptions
	// Observe wraps every request, e.g. with prometheus instrumentation
	Observe func(http.Handler) http.Handler
	// Slow marks access log lines at warn level, defaults to 500ms
	Slow time.Duration
	// Timeout bounds each request, defaults to 30s
	Timeout time.Duration
}

// Stack returns a baseline per scope middleware slice
func Stack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Slow <= 0 {
		o.Slow = 500 * time.Millisecond
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	stack := []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RequestContext,

		// safety
		middleware.RecoverJSON,
	}

	// observability
	if o.Observe != nil {
		stack = append(stack, o.Observe)
	}
	stack = append(stack,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),

		// cross-origin and abuse control
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.RateLimit(o.RateLimit),

		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(o.Timeout),
	)
	return stack
}
