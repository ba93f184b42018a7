// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// User is the application-level projection of an authenticated identity.
// It is replaced wholesale on every successful profile resolution and
// cleared on sign-out or an unrecoverable auth error.
type User struct {
	ID        string `json:"id"`                   // Identity id assigned by the provider.
	Email     string `json:"email"`                // Primary contact email, also the login identifier.
	FirstName string `json:"first_name,omitempty"` // Optional given name from the profile record.
	LastName  string `json:"last_name,omitempty"`  // Optional family name from the profile record.
	Role      Role   `json:"role"`                 // Always one of the enumerated roles; defaults to student.
}

// FullName assembles a display name from the profile name fields.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
