package auth

import (
	"fmt"
	"strings"
)

// Decision is the result of an access check. A denied Decision always carries
// a human-readable reason so callers can surface it instead of returning
// empty data.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a positive decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a negative decision with a reason.
func Deny(format string, args ...interface{}) Decision {
	return Decision{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// Authorizer is the single source of truth for the permission matrix. Every
// accessor (tabular, vector, metric) routes its checks through here so the
// matrix is never duplicated. Stateless and safe for concurrent use.
type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Permissions returns the permission record for a role. Unknown roles fall
// back to the employee record, the most restrictive business tier.
func (a *Authorizer) Permissions(role Role) Permissions {
	if p, ok := rolePermissions[role]; ok {
		return p
	}
	return rolePermissions[RoleEmployee]
}

// AccessibleDepartments returns the departments a role may read.
func (a *Authorizer) AccessibleDepartments(role Role) []string {
	p := a.Permissions(role)
	out := make([]string, len(p.Departments))
	copy(out, p.Departments)
	return out
}

// CanAccessDepartment checks row/item-level department access.
func (a *Authorizer) CanAccessDepartment(role Role, department string) Decision {
	department = strings.ToLower(strings.TrimSpace(department))
	for _, d := range a.Permissions(role).Departments {
		if d == department {
			return Allow()
		}
	}
	return Deny("role %s has no access to department %s", role, department)
}

// CanAccessDataKind checks source-level access by data kind.
func (a *Authorizer) CanAccessDataKind(role Role, kind string) Decision {
	kind = strings.ToLower(strings.TrimSpace(kind))
	for _, k := range a.Permissions(role).DataKinds {
		if k == DataKindAll || k == kind {
			return Allow()
		}
	}
	return Deny("role %s has no access to data kind %s", role, kind)
}

// CanAccessSensitivity gates high-sensitivity items behind an explicit role
// allowlist. Medium and low sensitivity pass for any role that already
// cleared the department check.
func (a *Authorizer) CanAccessSensitivity(role Role, level Sensitivity, allowedRoles []Role) Decision {
	if level != SensitivityHigh {
		return Allow()
	}
	for _, r := range allowedRoles {
		if r == role {
			return Allow()
		}
	}
	return Deny("role %s is not authorized for high-sensitivity data", role)
}

// RestrictedFields returns the fields that must be masked or stripped for a
// role, regardless of any row-level access it holds.
func (a *Authorizer) RestrictedFields(role Role) []string {
	p := a.Permissions(role)
	out := make([]string, len(p.RestrictedFields))
	copy(out, p.RestrictedFields)
	return out
}

// IsFieldRestricted reports whether a single field is masked for a role.
func (a *Authorizer) IsFieldRestricted(role Role, field string) bool {
	field = strings.ToLower(strings.TrimSpace(field))
	for _, f := range a.Permissions(role).RestrictedFields {
		if f == field {
			return true
		}
	}
	return false
}
