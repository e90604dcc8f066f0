package auth

import (
	"context"
	nethttp "net/http"
	"sync"
)

// RetryWithRefreshHeaderKey is the wire name of the retry marker. The
// credential-attaching component sets it on outbound requests; the
// Authenticator consumes it and strips it from retried requests.
const RetryWithRefreshHeaderKey = "X-Auth-Retry-With-Refresh"

// AuthenticationProvider supplies tokens and owns the lock that serializes
// concurrent refreshes. Token with forceRefresh performs the (blocking)
// network call that mints a new token; without it the provider returns the
// current token, minting only if it has none.
type AuthenticationProvider interface {
	Token(ctx context.Context, forceRefresh bool) (string, error)
	Lock() sync.Locker
}

// TokenReaderWriter reads tokens from and writes tokens into requests. Write
// and RemoveToken must not mutate their input; they return a derived request.
type TokenReaderWriter interface {
	Read(req *nethttp.Request) string
	Write(req *nethttp.Request, token string) *nethttp.Request
	RemoveToken(req *nethttp.Request) *nethttp.Request
}

// FailureListener is notified exactly once per exchange that is ultimately
// abandoned. Fire-and-forget; the response body must not be consumed here.
type FailureListener func(resp *nethttp.Response)

// GiveUpHandler replaces the default give-up behavior. Returning a non-nil
// request makes the transport attempt it (e.g. a redirect to a login flow);
// returning nil abandons the exchange. The failure listener has already been
// notified when the handler runs.
type GiveUpHandler func(resp *nethttp.Response) (*nethttp.Request, error)
