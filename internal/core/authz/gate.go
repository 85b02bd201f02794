// Package authz holds the ownership and role predicates evaluated after the
// caller's identity is resolved and before any ledger read or mutation.
package authz

import (
	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// RequireRole fails with domain.ErrForbidden unless id carries one of roles.
func RequireRole(id domain.Identity, roles ...string) error {
	for _, r := range roles {
		if id.Role == r {
			return nil
		}
	}
	return domain.NewError(domain.ErrForbidden, "access denied")
}

// RequireOwner fails with domain.ErrNotOwner unless id owns the resource.
func RequireOwner(id domain.Identity, ownerID string) error {
	if id.UserID == "" || ownerID != id.UserID {
		return domain.ErrNotOwner
	}
	return nil
}
