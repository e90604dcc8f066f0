package httpclient

import (
	nethttp "net/http"

	"github.com/whisp-internet/framework-network/auth"
)

// Transport is an http.RoundTripper decorator for plain net/http users. When
// the wrapped transport returns a 401 it consults the authenticator exactly
// once and resends the rewritten request; any other response passes through.
type Transport struct {
	base          nethttp.RoundTripper
	authenticator *auth.Authenticator
}

// Ensure Transport implements the interface
var _ nethttp.RoundTripper = (*Transport)(nil)

// NewTransport creates a Transport wrapping base. A nil base falls back to
// http.DefaultTransport.
func NewTransport(base nethttp.RoundTripper, authenticator *auth.Authenticator) *Transport {
	return &Transport{
		base:          base,
		authenticator: authenticator,
	}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	base := t.base
	if base == nil {
		base = nethttp.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil || resp.StatusCode != nethttp.StatusUnauthorized || t.authenticator == nil {
		return resp, err
	}
	if resp.Request == nil {
		// Custom round trippers don't always populate it.
		resp.Request = req
	}

	retryReq, authErr := t.authenticator.Authenticate(req.Context(), resp)
	if authErr != nil {
		drainBody(resp)
		return nil, NewAuthenticationError("authentication retry aborted", authErr)
	}
	if retryReq == nil || retryReq == req {
		// Give up, or the request was never authenticated to begin with.
		return resp, nil
	}

	drainBody(resp)

	if retryReq.GetBody != nil {
		body, bodyErr := retryReq.GetBody()
		if bodyErr != nil {
			return nil, NewNetworkError("failed to rewind request body for auth retry", bodyErr)
		}
		retryReq.Body = body
	}

	return base.RoundTrip(retryReq)
}
