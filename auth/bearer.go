package auth

import (
	nethttp "net/http"
	"strings"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// BearerTokenReaderWriter is a TokenReaderWriter for the Authorization header
// with the Bearer scheme.
type BearerTokenReaderWriter struct{}

// Ensure the codec implements the interface
var _ TokenReaderWriter = BearerTokenReaderWriter{}

// Read returns the bearer token carried by req, or "" if there is none.
// Authorization values with a different scheme are ignored.
func (BearerTokenReaderWriter) Read(req *nethttp.Request) string {
	value := req.Header.Get(authorizationHeader)
	if !strings.HasPrefix(value, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(value, bearerPrefix)
}

// Write returns a copy of req carrying token as a bearer credential.
func (BearerTokenReaderWriter) Write(req *nethttp.Request, token string) *nethttp.Request {
	written := req.Clone(req.Context())
	written.Header.Set(authorizationHeader, bearerPrefix+token)
	return written
}

// RemoveToken returns a copy of req without the Authorization header.
func (BearerTokenReaderWriter) RemoveToken(req *nethttp.Request) *nethttp.Request {
	removed := req.Clone(req.Context())
	removed.Header.Del(authorizationHeader)
	return removed
}
