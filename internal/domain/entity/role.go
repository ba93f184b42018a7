// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleStudent indicates a regular learner role. It is the default
	// when no profile record exists for an identity.
	RoleStudent Role = "student"
	// RoleInstructor indicates a course author/teacher role.
	RoleInstructor Role = "instructor"
	// RoleAdmin indicates a platform administrator role.
	RoleAdmin Role = "admin"
)

// roleLevels defines the total order admin > instructor > student.
// All hierarchy comparisons go through Satisfies; call sites never
// re-derive the ordering themselves.
var roleLevels = map[Role]int{
	RoleStudent:    1,
	RoleInstructor: 2,
	RoleAdmin:      3,
}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]

	return ok
}

// Level returns the role's position in the hierarchy; unknown roles rank below student.
func (r Role) Level() int {
	return roleLevels[r]
}

// Satisfies reports whether this role meets a required role,
// honoring the hierarchy (an admin satisfies instructor-level checks).
func (r Role) Satisfies(required Role) bool {
	return r.Level() >= required.Level() && required.IsValid()
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
// Membership is exact; hierarchy does not apply to allow-lists.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// RoleFromString converts a string to a Role, falling back to student
// for anything outside the enumerated values.
func RoleFromString(s string) Role {
	role := Role(s)
	if !role.IsValid() {
		return RoleStudent
	}

	return role
}
