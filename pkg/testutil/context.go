package testutil

import (
	"net/http"

	id "catalog/pkg/domain"
	"catalog/pkg/requestcontext"
)

// WithUserID puts the caller id into the request context, the way the auth
// middleware does for authenticated requests. Invalid ids are ignored.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
	}
	return req
}

// WithAuth sets the caller id and roles.
func WithAuth(req *http.Request, userID string, roles ...string) *http.Request {
	req = WithUserID(req, userID)
	return req.WithContext(requestcontext.WithRoles(req.Context(), roles))
}
