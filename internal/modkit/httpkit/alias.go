// Package httpkit re-exports the platform http helpers modules mount their routes with
package httpkit

import (
	"net/http"

	phttp "grantdir/internal/platform/net/http"
	"grantdir/internal/platform/net/http/bind"
)

type (
	// Envelope is the JSON body every endpoint answers with
	Envelope = phttp.Envelope

	Response = phttp.Response
	Handler  = phttp.Handler
	Router   = phttp.Router

	// QueryOptions tunes query string binding
	QueryOptions = bind.QueryOptions
)

// OK returns a 200 carrying data
func OK(data any) Response { return phttp.OK(data) }

// Error maps err onto its status and an error envelope
func Error(err error) Response { return phttp.Error(err) }

// Redirect returns a redirect response, status defaults to 301
func Redirect(location string, status int) Response { return phttp.Redirect(location, status) }

func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

func Call(fn func(*http.Request) (any, error)) Handler { return phttp.Call(fn) }

// Get mounts fn under GET
func Get(r Router, path string, fn func(*http.Request) (any, error)) { phttp.Get(r, path, fn) }

// GetQuery mounts fn under GET with T bound and validated from the query string
func GetQuery[T any](r Router, path string, fn func(*http.Request, T) (any, error), opts ...QueryOptions) {
	phttp.GetQuery(r, path, fn, opts...)
}
