// Package middleware is the api middleware: chi and go-chi/cors behind plain func(http.Handler) http.Handler
// plus the access log, rate limit and panic recovery
package middleware

import (
	"net/http"
	"time"

	pstrings "grantdir/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RequestID reuses an incoming X-Request-Id or mints one
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP trusts X-Forwarded-For and X-Real-IP, deploy behind a proxy that sets them
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Compress gzips and deflates JSON responses at level
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level, "application/json").Handler
}

func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Heartbeat answers GET path with 200 before routing, for load balancer checks
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is the subset of go-chi/cors the api configures
type CORSOptions struct {
	AllowedOrigins []string
	// AllowedMethods defaults to the read verbs
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS lets browsers on AllowedOrigins read the api, an empty list allows none
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodHead, http.MethodOptions}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "X-Request-Id"}),
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         o.MaxAge,
	})
}
