// Package testutil provides common helpers for handler and integration tests.
package testutil

import (
	"net/http"
	"time"

	id "namemarket/pkg/domain"
	"namemarket/pkg/requestcontext"
)

// WithPrincipal stamps the request context with an authenticated principal,
// simulating what the auth middleware does for valid tokens.
func WithPrincipal(req *http.Request, principal id.Principal) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), principal))
}

// WithRequestTime pins the request clock so expiry-sensitive handlers are
// deterministic under test.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}

// WithRequestID stamps a known request ID for log and event assertions.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
