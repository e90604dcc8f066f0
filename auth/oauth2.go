package auth

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// TokenSourceProvider adapts an oauth2.TokenSource into an
// AuthenticationProvider. It caches the last minted token itself so that a
// forced refresh always reaches the source; pass the raw minting source, not
// one wrapped in oauth2.ReuseTokenSource.
//
// oauth2.TokenSource carries its own context, so the one passed to Token is
// not consulted beyond early cancellation.
type TokenSourceProvider struct {
	source oauth2.TokenSource

	mu      sync.Mutex
	current *oauth2.Token

	refreshMu sync.Mutex
}

// Ensure the adapter implements the interface
var _ AuthenticationProvider = (*TokenSourceProvider)(nil)

// NewTokenSourceProvider creates a provider minting tokens from source.
func NewTokenSourceProvider(source oauth2.TokenSource) *TokenSourceProvider {
	return &TokenSourceProvider{source: source}
}

// Token returns the current token, minting a new one when forceRefresh is set
// or when no valid token is cached.
func (p *TokenSourceProvider) Token(ctx context.Context, forceRefresh bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !forceRefresh && p.current.Valid() {
		return p.current.AccessToken, nil
	}

	token, err := p.source.Token()
	if err != nil {
		return "", err
	}
	p.current = token
	return token.AccessToken, nil
}

// Lock returns the handle serializing compare-and-refresh sequences across
// concurrent failed exchanges.
func (p *TokenSourceProvider) Lock() sync.Locker {
	return &p.refreshMu
}
