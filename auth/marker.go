package auth

import nethttp "net/http"

// MarkForRetryWithRefresh returns a copy of req flagged for a refreshed retry
// should the server reject it. The component that attaches credentials calls
// this; without the marker a 401 is treated as terminal.
func MarkForRetryWithRefresh(req *nethttp.Request) *nethttp.Request {
	marked := req.Clone(req.Context())
	marked.Header.Set(RetryWithRefreshHeaderKey, "true")
	return marked
}

// SetRetryWithRefresh flags req in place. For callers that build the request
// themselves (e.g. request interceptors) and do not need a copy.
func SetRetryWithRefresh(req *nethttp.Request) {
	req.Header.Set(RetryWithRefreshHeaderKey, "true")
}

func hasRetryMarker(req *nethttp.Request) bool {
	return req.Header.Get(RetryWithRefreshHeaderKey) != ""
}

// stripRetryMarker returns a copy of req without the marker so that a second
// legitimate 401 on the same logical operation starts a fresh cycle.
func stripRetryMarker(req *nethttp.Request) *nethttp.Request {
	stripped := req.Clone(req.Context())
	stripped.Header.Del(RetryWithRefreshHeaderKey)
	return stripped
}
