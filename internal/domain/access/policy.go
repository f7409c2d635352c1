// Package access holds the single authorization rule shared by every handler:
// admins may touch anything, everyone else only the rows they own.
package access

import (
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Caller is the authenticated identity decoded from the access token.
type Caller struct {
	ID                 uint
	Username           string
	Role               string
	ForcePasswordReset bool
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

func (c Caller) Owns(ownerID uint) bool {
	return c.ID == ownerID
}

// ScopeOwner returns the owner id list queries must be restricted to, or nil
// when the caller may see every row.
func (c Caller) ScopeOwner() *uint {
	if c.IsAdmin() {
		return nil
	}
	id := c.ID
	return &id
}

// Authorize allows the call when the caller holds requiredRole (if any) and
// is either an admin or the owner of the resource. A nil ownerID marks a
// shared resource.
func Authorize(caller Caller, ownerID *uint, requiredRole string) error {
	if requiredRole != "" && caller.Role != requiredRole {
		return httperr.NewForbidden("forbidden", "You do not have permission to perform this action.")
	}
	if caller.IsAdmin() || ownerID == nil || caller.Owns(*ownerID) {
		return nil
	}
	return httperr.NewForbidden("not_owner", "You do not have permission to access this resource.")
}

// AuthorizeOwned is Authorize for resources that always have an owner.
func AuthorizeOwned(caller Caller, ownerID uint) error {
	return Authorize(caller, &ownerID, "")
}
