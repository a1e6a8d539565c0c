package domain

import "github.com/google/uuid"

// Role of an authenticated user
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleCitizen || r == RoleOfficer || r == RoleAdmin
}

// Actor is the authenticated user performing an operation
type Actor struct {
	ID           uuid.UUID
	Role         Role
	DepartmentID *uuid.UUID // set for officers
}

// IsStaff returns true for officers and admins
func (a Actor) IsStaff() bool {
	return a.Role == RoleOfficer || a.Role == RoleAdmin
}

// IsAdmin returns true for admins
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccessDepartment reports whether a staff actor may act on the department.
// Admins are unscoped, officers are limited to their own department.
func (a Actor) CanAccessDepartment(departmentID uuid.UUID) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleOfficer:
		return a.DepartmentID != nil && *a.DepartmentID == departmentID
	default:
		return false
	}
}
