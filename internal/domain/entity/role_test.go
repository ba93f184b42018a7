package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Satisfies_Hierarchy(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{name: "admin satisfies instructor", role: RoleAdmin, required: RoleInstructor, want: true},
		{name: "admin satisfies student", role: RoleAdmin, required: RoleStudent, want: true},
		{name: "admin satisfies admin", role: RoleAdmin, required: RoleAdmin, want: true},
		{name: "instructor satisfies student", role: RoleInstructor, required: RoleStudent, want: true},
		{name: "instructor denied admin", role: RoleInstructor, required: RoleAdmin, want: false},
		{name: "student denied instructor", role: RoleStudent, required: RoleInstructor, want: false},
		{name: "unknown role denied everything", role: Role("ghost"), required: RoleStudent, want: false},
		{name: "unknown requirement never satisfied", role: RoleAdmin, required: Role("ghost"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Satisfies(tt.required))
		})
	}
}

func TestRoleFromString_DefaultsToStudent(t *testing.T) {
	assert.Equal(t, RoleInstructor, RoleFromString("instructor"))
	assert.Equal(t, RoleStudent, RoleFromString(""))
	assert.Equal(t, RoleStudent, RoleFromString("superuser"))
}

func TestRoles_ContainsIsExact(t *testing.T) {
	allowed := Roles{RoleInstructor, RoleAdmin}

	assert.True(t, allowed.Contains(RoleAdmin))
	assert.False(t, allowed.Contains(RoleStudent))
}
