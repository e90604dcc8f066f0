package auth

import (
	"context"
	nethttp "net/http"

	"github.com/whisp-internet/framework-network/logger"
)

// Authenticator decides what to do with a request the server rejected as
// unauthorized: pass it through, give up, or refresh the token and rewrite it
// for one retry. It holds no mutable state of its own and is safe for
// concurrent use; refresh de-duplication relies on the provider's lock.
type Authenticator struct {
	provider AuthenticationProvider
	tokens   TokenReaderWriter
	onFailed FailureListener
	giveUp   GiveUpHandler
	log      logger.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithFailureListener registers a listener notified once per abandoned exchange.
func WithFailureListener(listener FailureListener) Option {
	return func(a *Authenticator) {
		a.onFailed = listener
	}
}

// WithGiveUpHandler overrides the default give-up behavior (abandon the exchange).
func WithGiveUpHandler(handler GiveUpHandler) Option {
	return func(a *Authenticator) {
		a.giveUp = handler
	}
}

// WithLogger sets the logger. Logging is disabled by default.
func WithLogger(log logger.Logger) Option {
	return func(a *Authenticator) {
		a.log = log
	}
}

// New creates an Authenticator backed by the given provider and token codec.
func New(provider AuthenticationProvider, tokens TokenReaderWriter, opts ...Option) *Authenticator {
	a := &Authenticator{
		provider: provider,
		tokens:   tokens,
		log:      logger.New("disabled", false),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate handles a response with an unauthorized status and returns the
// request to retry, or nil to abandon the exchange. Returning the original
// request unchanged means the request carried no token and nothing can be done
// here. A provider failure aborts the retry and is returned as a ProviderError.
//
// The transport layer must call this at most once per exchange.
func (a *Authenticator) Authenticate(ctx context.Context, resp *nethttp.Response) (*nethttp.Request, error) {
	req := resp.Request

	oldToken := a.tokens.Read(req)
	if oldToken == "" {
		// The request was never authenticated; refreshing cannot help.
		return req, nil
	}

	if !hasRetryMarker(req) {
		return a.handleGiveUp(resp)
	}

	lock := a.provider.Lock()
	lock.Lock()
	defer lock.Unlock()

	token, err := a.provider.Token(ctx, false)
	if err != nil {
		return nil, newProviderError("failed to retrieve token", err)
	}

	refreshed := false
	if token == oldToken {
		// The token hasn't changed since this request was signed, so no other
		// exchange has refreshed it yet. Force a new one.
		token, err = a.provider.Token(ctx, true)
		if err != nil {
			return nil, newProviderError("failed to refresh token", err)
		}
		refreshed = true
	}

	a.log.Debug().
		Str("url", req.URL.String()).
		Bool("refreshed", refreshed).
		Msg("retrying request with resolved token")

	retry := a.tokens.RemoveToken(stripRetryMarker(req))
	return a.tokens.Write(retry, token), nil
}

// handleGiveUp runs after authentication has ultimately failed: the request was
// retried with a refreshed token already, or was never marked for one.
func (a *Authenticator) handleGiveUp(resp *nethttp.Response) (*nethttp.Request, error) {
	if a.onFailed != nil {
		a.onFailed(resp)
	}
	if a.giveUp != nil {
		return a.giveUp(resp)
	}
	a.log.Warn().
		Str("url", resp.Request.URL.String()).
		Int("status", resp.StatusCode).
		Msg("authentication failed; giving up")
	return nil, nil
}
