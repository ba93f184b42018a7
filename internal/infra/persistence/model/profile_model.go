// Package model holds the GORM persistence models.
package model

import (
	"time"

	"campus/internal/domain/entity"
)

// ProfileModel mirrors the 'profiles' table. The primary key is the
// identity provider's user id, so rows survive provider migrations
// that keep uids stable.
type ProfileModel struct {
	ID        string `gorm:"type:varchar(128);primary_key"`
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	Role      string `gorm:"type:varchar(32);not null;default:'student'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain maps the persistence model to a pure domain entity.
func (m *ProfileModel) ToDomain() *entity.Profile {
	return &entity.Profile{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Role:      entity.RoleFromString(m.Role),
		UpdatedAt: m.UpdatedAt,
	}
}

// FromProfileDomain maps a domain entity to the persistence model.
func FromProfileDomain(profile *entity.Profile) *ProfileModel {
	return &ProfileModel{
		ID:        profile.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Role:      profile.Role.String(),
	}
}
