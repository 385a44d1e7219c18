package auth

import (
	"github.com/ebogdum/filegate/internal/pathutil"
)

// OwnerAuthorizer grants access based on tenant ownership: a principal may
// touch a location iff its own id appears as a path segment, which is exactly
// the set of locations under its partition. Admins get no blanket bypass;
// they pass only when the caller sets the explicit override. Wider admin
// browsing scope comes from path resolution, not from this check.
type OwnerAuthorizer struct{}

// NewOwnerAuthorizer creates the ownership-based authorizer.
func NewOwnerAuthorizer() *OwnerAuthorizer {
	return &OwnerAuthorizer{}
}

// CanAccess implements Authorizer.
func (a *OwnerAuthorizer) CanAccess(principal *Principal, location string, adminOverride bool) bool {
	if principal == nil {
		return false
	}

	if adminOverride && principal.IsAdmin() {
		return true
	}

	return pathutil.ContainsSegment(location, principal.ID)
}
