package http

import (
	"net/http"

	"grantdir/internal/platform/net/http/bind"
)

// Call adapts fn to a Handler, a returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

// Query binds and validates the query string into T before calling fn
// binding failures answer 400 without reaching fn
func Query[T any](fn func(*http.Request, T) (any, error), opts ...bind.QueryOptions) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseQuery[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
