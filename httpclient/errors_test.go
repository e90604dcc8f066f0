package httpclient

import (
	"errors"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name     string
		err      ClientError
		errType  ErrorType
		contains string
	}{
		{
			name:     "network error",
			err:      NewNetworkError("connection refused", errors.New("dial tcp")),
			errType:  NetworkError,
			contains: "network error",
		},
		{
			name:     "timeout error",
			err:      NewTimeoutError("request timeout", 5*time.Second),
			errType:  TimeoutError,
			contains: "timeout error",
		},
		{
			name:     "http error",
			err:      NewHTTPError("unauthorized", nethttp.StatusUnauthorized, nil),
			errType:  HTTPError,
			contains: "HTTP error",
		},
		{
			name:     "validation error",
			err:      NewValidationError("URL cannot be empty", "url"),
			errType:  ValidationError,
			contains: "validation error",
		},
		{
			name:     "interceptor error",
			err:      NewInterceptorError("boom", "request", errors.New("bad header")),
			errType:  InterceptorError,
			contains: "interceptor error",
		},
		{
			name:     "authentication error",
			err:      NewAuthenticationError("retry aborted", errors.New("provider down")),
			errType:  AuthenticationError,
			contains: "authentication error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type())
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.True(t, IsErrorType(tt.err, tt.errType))
		})
	}
}

func TestIsErrorTypeNil(t *testing.T) {
	assert.False(t, IsErrorType(nil, NetworkError))
}

func TestAuthenticationErrorUnwraps(t *testing.T) {
	cause := errors.New("provider down")
	err := NewAuthenticationError("retry aborted", cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsHTTPStatusError(t *testing.T) {
	err := NewHTTPError("unauthorized", nethttp.StatusUnauthorized, []byte("denied"))
	assert.True(t, IsHTTPStatusError(err, nethttp.StatusUnauthorized))
	assert.False(t, IsHTTPStatusError(err, nethttp.StatusForbidden))
	assert.False(t, IsHTTPStatusError(errors.New("plain"), nethttp.StatusUnauthorized))
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(nethttp.StatusOK))
	assert.True(t, IsSuccessStatus(nethttp.StatusNoContent))
	assert.False(t, IsSuccessStatus(nethttp.StatusUnauthorized))
	assert.False(t, IsSuccessStatus(nethttp.StatusInternalServerError))
}
