// Package policy is the central authorization checkpoint. It is a pure
// decision function over (identity, apartment, action): no state, no caching,
// evaluated fresh on every call so role changes and admin reassignment take
// effect immediately for all subsequent calls.
package policy

import (
	"github.com/diewo77/parkgate/internal/apperr"
	"github.com/diewo77/parkgate/internal/models"
)

// Role is the caller's externally-verified role.
type Role string

const (
	RoleMember        Role = models.RoleMember
	RoleResourceAdmin Role = models.RoleResourceAdmin
	RoleSuperAdmin    Role = models.RoleSuperAdmin
)

// Identity is the verified (subject, role) pair attached to every request.
// The policy package consumes it; producing it is the auth package's job.
type Identity struct {
	SubjectID string
	Role      Role
}

// Administered is implemented by resources that carry a delegated admin.
// models.Apartment implements it.
type Administered interface {
	GetAdminID() string
}

// Decide reports whether identity may perform action on the apartment.
// Returns nil on allow and a Forbidden apperr on deny. The denial carries
// only the attempted action and apartment id — never whether the role or the
// ownership check failed, so a caller cannot probe which apartments an
// identity does not administer.
//
// The decision table:
//
//	SuperAdmin     → everything, everywhere.
//	ResourceAdmin  → read apartment / read+write permits on apartments it
//	                 administers; apartment writes are always denied.
//	Member         → read apartment only.
func Decide(id Identity, apt Administered, action Action) error {
	if allowed(id, apt, action) {
		return nil
	}
	e := apperr.New(apperr.ErrForbidden, "").WithAction(string(action))
	if a, ok := apt.(*models.Apartment); ok && a != nil {
		e = e.WithApartment(a.ID)
	}
	return e
}

func allowed(id Identity, apt Administered, action Action) bool {
	if id.SubjectID == "" {
		return false
	}
	switch id.Role {
	case RoleSuperAdmin:
		return true
	case RoleResourceAdmin:
		switch action {
		case ActionReadApartment, ActionReadPermits, ActionWritePermits:
			return apt != nil && apt.GetAdminID() == id.SubjectID
		}
		return false
	case RoleMember:
		return action == ActionReadApartment
	}
	return false
}

// Can is a convenience wrapper returning bool instead of error.
func Can(id Identity, apt Administered, action Action) bool {
	return Decide(id, apt, action) == nil
}
