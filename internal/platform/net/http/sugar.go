package http

import (
	"net/http"

	"grantdir/internal/platform/net/http/bind"
)

// Get mounts fn under GET
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Call(fn))
}

// GetQuery mounts fn under GET with its input bound from the query string
func GetQuery[T any](r Router, path string, fn func(*http.Request, T) (any, error), opts ...bind.QueryOptions) {
	r.Get(path, Query(fn, opts...))
}
