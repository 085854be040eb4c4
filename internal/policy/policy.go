// Package policy decides whether an acting identity may perform an operation
// and which fields of an update it may apply. It has no I/O; callers pass
// the actor derived from a verified token and the target identifiers.
package policy

import (
	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/models"
)

// Actor is the identity extracted from a verified token.
type Actor struct {
	SubjectID string
	Role      models.Role
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// IsStaff reports whether the actor is an agent or an admin.
func (a *Actor) IsStaff() bool {
	return a != nil && (a.Role == models.RoleAgent || a.Role == models.RoleAdmin)
}

// RequireAuthenticated fails when no verified identity is present.
func RequireAuthenticated(actor *Actor) error {
	if actor == nil || actor.SubjectID == "" {
		return apperr.New(apperr.Unauthenticated, "authentication required")
	}
	return nil
}

// RequireSelfOrAdmin permits admins and the user identified by targetUserID.
func RequireSelfOrAdmin(actor *Actor, targetUserID string) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.IsAdmin() || actor.SubjectID == targetUserID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "access denied: you can only access your own account")
}

func RequireAdmin(actor *Actor) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperr.New(apperr.Forbidden, "access denied: admin privileges required")
	}
	return nil
}

// RequireAgentOrAdmin gates property mutation and inquiry management on role
// alone. Any agent may act on any property or inquiry.
func RequireAgentOrAdmin(actor *Actor) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return apperr.New(apperr.Forbidden, "access denied: agent privileges required")
	}
	return nil
}

// RequireOwnerOrStaff permits staff and the user who owns the resource.
// The owner id comes from the request path and is checked against the token
// subject rather than trusted.
func RequireOwnerOrStaff(actor *Actor, ownerID string) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.IsStaff() || actor.SubjectID == ownerID {
		return nil
	}
	return apperr.New(apperr.Forbidden, "access denied: you can only view your own inquiries")
}

// CanAssignRole reports whether the actor may set the role of a user.
func CanAssignRole(actor *Actor) bool {
	return actor.IsAdmin()
}

// FilterUserUpdate drops the fields of req that actor may not change and
// returns their names. The rest of the update is left intact.
func FilterUserUpdate(actor *Actor, req *dto.UpdateUserRequest) []string {
	var dropped []string
	if req.Role != nil && !CanAssignRole(actor) {
		req.Role = nil
		dropped = append(dropped, "role")
	}
	return dropped
}

// FilterUserCreate applies the same role protection to registration: only an
// admin may register an account with a role other than the default.
func FilterUserCreate(actor *Actor, req *dto.CreateUserRequest) []string {
	if req.Role != "" && !CanAssignRole(actor) {
		req.Role = ""
		return []string{"role"}
	}
	return nil
}
