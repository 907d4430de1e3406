package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halljared/triviadesk/internal/errors"
)

func TestFromHTTPStatus(t *testing.T) {
	tests := map[int]errors.Code{
		http.StatusBadRequest:          errors.CodeInvalidArgument,
		http.StatusUnauthorized:        errors.CodeUnauthenticated,
		http.StatusNotFound:            errors.CodeNotFound,
		http.StatusConflict:            errors.CodeAlreadyExists,
		http.StatusServiceUnavailable:  errors.CodeUnavailable,
		http.StatusInternalServerError: errors.CodeInternal,
		http.StatusBadGateway:          errors.CodeInternal,
		http.StatusTeapot:              errors.CodeInternal,
	}

	for status, want := range tests {
		assert.Equal(t, want, errors.FromHTTPStatus(status), "status %d", status)
	}
}

func TestConvert(t *testing.T) {
	cause := stderrors.New("boom")

	e := errors.Convert(errors.New(errors.CodeNotFound, errors.WithCause(cause)))
	require.Equal(t, errors.CodeNotFound, e.Code)
	require.ErrorIs(t, e, cause)

	e = errors.Convert(cause)
	require.Equal(t, errors.CodeInternal, e.Code)
	require.ErrorIs(t, e, cause)
}

func TestHTTPStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusPreconditionFailed, errors.FailedPrecondition("no event loaded").HTTPStatusCode())
	assert.Equal(t, http.StatusInternalServerError, errors.New(errors.Code(99)).HTTPStatusCode())
}
