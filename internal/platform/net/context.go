// Package net carries per request identity on the context
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Request is the identity a handler can read back from its context
type Request struct {
	ID       string
	ClientIP string
}

type requestKey struct{}

// WithRequest stores id and ip; the id also lands under chi's key so chimw.GetReqID agrees.
// Empty values leave ctx untouched.
func WithRequest(ctx context.Context, id, ip string) context.Context {
	if id == "" && ip == "" {
		return ctx
	}
	if id != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, id)
	}
	return context.WithValue(ctx, requestKey{}, Request{ID: id, ClientIP: ip})
}

// FromContext returns the stored request, zero when none was set
func FromContext(ctx context.Context) Request {
	req, _ := ctx.Value(requestKey{}).(Request)
	if req.ID == "" {
		req.ID = chimw.GetReqID(ctx)
	}
	return req
}

// RequestID prefers our stored id and falls back to chi's
func RequestID(ctx context.Context) string { return FromContext(ctx).ID }

// ClientIP is the caller address recorded by the request middleware
func ClientIP(ctx context.Context) string { return FromContext(ctx).ClientIP }
