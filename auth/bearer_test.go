package auth

import (
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBearerTestRequest(t *testing.T) *nethttp.Request {
	t.Helper()
	req, err := nethttp.NewRequest(nethttp.MethodGet, testURL, nil)
	require.NoError(t, err)
	return req
}

func TestBearerRead(t *testing.T) {
	codec := BearerTokenReaderWriter{}

	t.Run("bearer token", func(t *testing.T) {
		req := newBearerTestRequest(t)
		req.Header.Set("Authorization", "Bearer "+staleToken)
		assert.Equal(t, staleToken, codec.Read(req))
	})

	t.Run("no authorization header", func(t *testing.T) {
		assert.Empty(t, codec.Read(newBearerTestRequest(t)))
	})

	t.Run("other scheme is ignored", func(t *testing.T) {
		req := newBearerTestRequest(t)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		assert.Empty(t, codec.Read(req))
	})
}

func TestBearerWrite(t *testing.T) {
	codec := BearerTokenReaderWriter{}
	req := newBearerTestRequest(t)

	written := codec.Write(req, freshToken)

	assert.NotSame(t, req, written)
	assert.Empty(t, req.Header.Get("Authorization"), "input request stays untouched")
	assert.Equal(t, "Bearer "+freshToken, written.Header.Get("Authorization"))
}

func TestBearerRemoveToken(t *testing.T) {
	codec := BearerTokenReaderWriter{}
	req := newBearerTestRequest(t)
	req.Header.Set("Authorization", "Bearer "+staleToken)

	removed := codec.RemoveToken(req)

	assert.Empty(t, removed.Header.Get("Authorization"))
	assert.NotEmpty(t, req.Header.Get("Authorization"), "input request stays untouched")
}
