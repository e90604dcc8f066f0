// Package auth implements reactive authentication for HTTP clients: it is
// consulted after a server has rejected a request as unauthorized, obtains a
// fresh token, and rewrites the failed request for a single retry.
//
// It is NOT involved in attaching credentials to outbound requests in the
// first place. Credential attachment is the caller's concern (typically a
// request interceptor); this package only reacts to failures.
//
// Retry protocol
//   - The component that attaches credentials must also mark requests with
//     MarkForRetryWithRefresh. Only marked requests are eligible for a
//     refreshed retry.
//   - A 401 on an unmarked request is terminal: the optional failure listener
//     is notified once and the exchange is abandoned.
//   - A 401 on a marked request triggers a token refresh under the provider's
//     lock. The marker and the stale token are stripped from the retried
//     request, so a later legitimate 401 on the same logical operation starts
//     a fresh cycle instead of being mistaken for a loop.
//
// Refresh de-duplication
//   - All concurrent exchanges contending on the same provider serialize
//     through the lock returned by AuthenticationProvider.Lock.
//   - Inside the critical section the current token is compared against the
//     token the failed request was sent with. A forced refresh happens only
//     when they are equal; otherwise another exchange already refreshed and
//     its token is reused. At most one network refresh happens per stale
//     token, no matter how many requests failed on it.
package auth
