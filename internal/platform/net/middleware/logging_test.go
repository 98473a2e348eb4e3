package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pnet "grantdir/internal/platform/net"
	"grantdir/internal/platform/net/middleware"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestRequestContext_CopiesIDAndIP(t *testing.T) {
	var gotID, gotIP string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = pnet.RequestID(r.Context())
		gotIP = pnet.ClientIP(r.Context())
	})

	h := chimw.RequestID(middleware.RequestContext(next))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "203.0.113.5:4411"
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	if gotID == "" {
		t.Fatalf("expected request id on context")
	}
	if gotIP != "203.0.113.5" {
		t.Fatalf("client ip got %q want 203.0.113.5", gotIP)
	}
	if rr.Header().Get("X-Request-ID") != gotID {
		t.Fatalf("X-Request-ID header %q does not mirror %q", rr.Header().Get("X-Request-ID"), gotID)
	}
}

func TestRequestContext_BareRemoteAddr(t *testing.T) {
	var gotIP string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = pnet.ClientIP(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "198.51.100.2"
	middleware.RequestContext(next).ServeHTTP(httptest.NewRecorder(), req)

	if gotIP != "198.51.100.2" {
		t.Fatalf("client ip got %q", gotIP)
	}
}
