package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// countingSource mints a new token on every call.
type countingSource struct {
	mints int
	err   error
}

func (s *countingSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mints++
	return &oauth2.Token{AccessToken: fmt.Sprintf("minted-%d", s.mints)}, nil
}

func TestTokenSourceProviderCachesToken(t *testing.T) {
	source := &countingSource{}
	provider := NewTokenSourceProvider(source)

	first, err := provider.Token(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "minted-1", first)

	second, err := provider.Token(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.mints, "unforced reads reuse the cached token")
}

func TestTokenSourceProviderForceRefresh(t *testing.T) {
	source := &countingSource{}
	provider := NewTokenSourceProvider(source)

	_, err := provider.Token(context.Background(), false)
	require.NoError(t, err)

	refreshed, err := provider.Token(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "minted-2", refreshed)
	assert.Equal(t, 2, source.mints)

	current, err := provider.Token(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, refreshed, current, "forced refresh replaces the cached token")
}

func TestTokenSourceProviderSourceError(t *testing.T) {
	cause := errors.New("token endpoint returned 500")
	provider := NewTokenSourceProvider(&countingSource{err: cause})

	_, err := provider.Token(context.Background(), false)
	assert.ErrorIs(t, err, cause)
}

func TestTokenSourceProviderHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := NewTokenSourceProvider(&countingSource{})
	_, err := provider.Token(ctx, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenSourceProviderWithAuthenticator(t *testing.T) {
	// End to end: the adapter satisfies the compare-and-refresh protocol.
	source := &countingSource{}
	provider := NewTokenSourceProvider(source)

	current, err := provider.Token(context.Background(), false)
	require.NoError(t, err)

	authenticator := New(provider, BearerTokenReaderWriter{})
	retry, err := authenticator.Authenticate(context.Background(), newFailedResponse(t, current, true))

	require.NoError(t, err)
	require.NotNil(t, retry)
	assert.Equal(t, "Bearer minted-2", retry.Header.Get("Authorization"))
	assert.Equal(t, 2, source.mints)
}
