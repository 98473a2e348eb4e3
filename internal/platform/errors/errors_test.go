package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeUnknown:          http.StatusInternalServerError,
		ErrorCodePanic:            http.StatusInternalServerError,
		ErrorCodeDB:               http.StatusInternalServerError,
		ErrorCodeUnavailable:      http.StatusServiceUnavailable,
		ErrorCodeNotConfigured:    http.StatusServiceUnavailable,
		ErrorCodeTooManyRequests:  http.StatusTooManyRequests,
		ErrorCodeTimeout:          http.StatusGatewayTimeout,
		ErrorCodeValidation:       http.StatusBadRequest,
		ErrorCodeNotFound:         http.StatusNotFound,
		ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
		ErrorCode(999):            http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, code.Status(), code.String())
	}
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "not_found", ErrorCodeNotFound.String())
	assert.Equal(t, "validation", ErrorCodeValidation.String())
	assert.Equal(t, "code(77)", ErrorCode(77).String())
}

func TestWrapKeepsCauseOffTheWire(t *testing.T) {
	cause := stderrs.New("dial tcp 10.0.0.5:5432: connection refused")
	err := Wrapf(cause, ErrorCodeUnavailable, "search %s", "grants")

	assert.Equal(t, "search grants: dial tcp 10.0.0.5:5432: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Same(t, cause, Root(err))

	w := WireFrom(err)
	assert.Equal(t, Wire{Code: ErrorCodeUnavailable, Message: "search grants"}, w)
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestCodeOfThroughForeignWrap(t *testing.T) {
	inner := NotFoundf("agency %q", "nasa")
	outer := fmt.Errorf("agencies.get: %w", inner)

	assert.Equal(t, ErrorCodeNotFound, CodeOf(outer))
	assert.True(t, IsCode(outer, ErrorCodeNotFound))
	assert.False(t, IsCode(nil, ErrorCodeUnknown))
	assert.Equal(t, ErrorCodeUnknown, CodeOf(stderrs.New("plain")))
}

func TestWireFromForeignAndNil(t *testing.T) {
	assert.Equal(t, Wire{}, WireFrom(nil))
	assert.Equal(t, Wire{Code: ErrorCodeUnknown, Message: "plain"}, WireFrom(stderrs.New("plain")))
}

func TestWithField(t *testing.T) {
	base := Validationf("pageSize must be at most 100")
	withF := WithField(base, "pageSize")

	e, ok := As(withF)
	require.True(t, ok)
	assert.Equal(t, "pageSize", e.Field())
	assert.Equal(t, ErrorCodeValidation, e.Code())

	orig, _ := As(base)
	assert.Empty(t, orig.Field(), "WithField copies")

	foreign := WithField(stderrs.New("not a number"), "page")
	assert.Equal(t, Wire{Code: ErrorCodeValidation, Message: "not a number", Field: "page"}, WireFrom(foreign))
}

func TestSugar(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{Validationf("x"), ErrorCodeValidation},
		{PanicErrf("x"), ErrorCodePanic},
		{NotConfiguredf("x"), ErrorCodeNotConfigured},
		{TooManyRequestsf("x"), ErrorCodeTooManyRequests},
		{ErrNotFound, ErrorCodeNotFound},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, CodeOf(c.err))
	}

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestRootOfUnwrapped(t *testing.T) {
	plain := stderrs.New("plain")
	assert.Same(t, plain, Root(plain))
	assert.Nil(t, Root(nil))
}
