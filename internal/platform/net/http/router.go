package http

import "net/http"

// Handler is the shape every route is registered with
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the routing surface modules mount against
// the directory only serves reads, so GET is the one verb exposed
type Router interface {
	Get(path string, h Handler)
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))
	Mux() http.Handler
}
