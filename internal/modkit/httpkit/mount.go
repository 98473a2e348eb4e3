package httpkit

import "net/http"

// Mount registers routes under prefix behind mw
// an empty prefix mounts at the root of r in a group so mw does not leak onto r
func Mount(r Router, prefix string, mw []func(http.Handler) http.Handler, fn func(Router)) {
	scoped := func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		fn(sub)
	}
	if prefix == "" || prefix == "/" {
		r.Group(scoped)
		return
	}
	r.Route(prefix, scoped)
}
