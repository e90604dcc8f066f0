// Package httpclient provides a small, composable HTTP client with
// request/response interceptors, default headers, basic auth, a retry
// mechanism with exponential backoff and jitter, and reactive authentication
// through an auth.Authenticator.
//
// Retries
//   - Controlled via Builder.WithRetries(maxRetries, retryDelay).
//   - Retries occur on:
//   - Transport errors (network failures)
//   - Timeouts (context deadline exceeded or net.Error timeout)
//   - HTTP 5xx responses
//   - 4xx responses are not retried, with one exception: see below.
//
// Reactive authentication
//   - When an authenticator is configured via Builder.WithAuthenticator, a 401
//     response is handed to it exactly once per exchange.
//   - A rewritten request returned by the authenticator is sent once; its
//     response is final as far as authentication is concerned.
//   - A nil result means give up: the 401 is surfaced like any other
//     unexpected status.
//   - Requests become eligible for a refreshed retry only when marked; use
//     NewRetryWithRefreshInterceptor alongside whatever interceptor attaches
//     the credential.
//
// Backoff Strategy
//   - Exponential backoff based on retryDelay: delay = retryDelay * 2^attempt
//   - Full jitter is applied: actual sleep is random in [0, delay).
//   - Delay is capped at 30 seconds to avoid excessive waits.
//
// Notes
//   - Request bodies are re-sent by rebuilding the http.Request on each attempt.
//   - Interceptor errors are not retried and are surfaced immediately.
package httpclient
