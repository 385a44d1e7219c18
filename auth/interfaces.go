// Package auth provides the principal model, the trust delegate that verifies
// bearer credentials against the external identity service, and the ownership
// authorizer that guards resolved filesystem locations.
package auth

import (
	"context"
	"errors"
)

// Role is the coarse role assigned to a principal by the identity service.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Common authentication/authorization errors
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrPermissionDenied     = errors.New("permission denied")
)

// Principal is an authenticated caller. It is constructed once per request by
// the Authenticator and never persisted.
type Principal struct {
	ID   string `json:"uuid"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the principal carries the Admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Authenticator verifies a bearer credential and returns the principal it
// belongs to. Implementations must treat transport failures, delegate errors
// and schema-invalid responses identically as ErrAuthenticationFailed.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// Authorizer decides whether a principal may touch a resolved location.
type Authorizer interface {
	// CanAccess reports whether the principal owns the location, or holds the
	// Admin role and the caller explicitly opted into the admin override.
	CanAccess(principal *Principal, location string, adminOverride bool) bool
}
