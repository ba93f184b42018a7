// Package repository defines persistence contracts for the domain layer.
package repository

import (
	"context"

	"campus/internal/domain/entity"
	"campus/internal/errors"
)

// ErrProfileNotFound is returned when no profile record exists for an identity id.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository is the profile store: application records keyed by
// the provider's identity id. Only the profile fetch routine reads it.
type ProfileRepository interface {
	GetProfileByID(ctx context.Context, id string) (*entity.Profile, error)
	UpsertProfile(ctx context.Context, profile *entity.Profile) error
}
