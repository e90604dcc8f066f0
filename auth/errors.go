package auth

import (
	"errors"
	"fmt"
)

// ProviderError reports a failure of the AuthenticationProvider while reading
// or refreshing a token. It is fatal for the affected exchange: the retry is
// aborted and the error surfaces to the transport layer.
type ProviderError struct {
	message string
	wrapped error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("auth provider error: %s: %v", e.message, e.wrapped)
}

func (e *ProviderError) Unwrap() error {
	return e.wrapped
}

func newProviderError(message string, wrapped error) *ProviderError {
	return &ProviderError{
		message: message,
		wrapped: wrapped,
	}
}

// IsProviderError checks if an error was caused by the authentication provider.
func IsProviderError(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}
