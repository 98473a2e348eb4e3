package http

import (
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "grantdir/internal/platform/errors"
	pnet "grantdir/internal/platform/net"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h Handler, target string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "req-7", "198.51.100.4"))
	rr := httptest.NewRecorder()
	h(rr, req)
	var env Envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr, env
}

func TestHandle_OKEnvelope(t *testing.T) {
	rr, env := serve(t, Handle(func(*stdhttp.Request) Response {
		return OK(map[string]int{"total": 3}).WithHeader("Cache-Control", "max-age=60")
	}), "/api/grants/search")

	assert.Equal(t, stdhttp.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "max-age=60", rr.Header().Get("Cache-Control"))
	assert.Equal(t, 200, env.StatusCode)
	assert.Equal(t, "OK", env.Status)
	assert.Equal(t, "req-7", env.RequestID)
	assert.Equal(t, map[string]any{"total": float64(3)}, env.Data)
	assert.Empty(t, env.Error)
}

func TestHandle_ErrorEnvelope(t *testing.T) {
	err := perr.WithField(perr.Validationf("jurisdiction must be one of federal state local"), "jurisdiction")
	rr, env := serve(t, Handle(func(*stdhttp.Request) Response { return Error(err) }), "/api/grants/search")

	assert.Equal(t, stdhttp.StatusBadRequest, rr.Code)
	assert.Equal(t, perr.ErrorCodeValidation, env.Code)
	assert.Equal(t, "jurisdiction", env.Field)
	assert.Contains(t, env.Error, "must be one of")
	assert.Nil(t, env.Data)
}

func TestHandle_ForeignErrorIs500(t *testing.T) {
	rr, env := serve(t, Handle(func(*stdhttp.Request) Response { return Error(errors.New("disk on fire")) }), "/")
	assert.Equal(t, stdhttp.StatusInternalServerError, rr.Code)
	assert.Equal(t, perr.ErrorCodeUnknown, env.Code)
}

func TestRedirect_DefaultsToPermanent(t *testing.T) {
	rr, _ := serve(t, Handle(func(*stdhttp.Request) Response {
		return Redirect("/grants/abc-123/water-rights", 0)
	}), "/grants/abc-123")
	assert.Equal(t, stdhttp.StatusMovedPermanently, rr.Code)
	assert.Equal(t, "/grants/abc-123/water-rights", rr.Header().Get("Location"))

	rr, _ = serve(t, Handle(func(*stdhttp.Request) Response {
		return Response{Location: "/jobs/x/y"}
	}), "/jobs/x")
	assert.Equal(t, stdhttp.StatusMovedPermanently, rr.Code)
}

func TestWithHeader_DoesNotShareHeaders(t *testing.T) {
	base := OK(nil).WithHeader("X-A", "1")
	other := base.WithHeader("X-B", "2")
	assert.Empty(t, base.Header.Get("X-B"))
	assert.Equal(t, "1", other.Header.Get("X-A"))
}
