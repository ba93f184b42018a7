package postgres

import (
	"context"

	"campus/internal/domain/entity"
	"campus/internal/domain/repository"
	"campus/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// profileRepository implements repository.ProfileRepository using GORM.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
// It returns the repository as a repository.ProfileRepository interface, adhering to dependency inversion.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// GetProfileByID retrieves a profile row by the identity provider's user id.
func (repo *profileRepository) GetProfileByID(ctx context.Context, id string) (*entity.Profile, error) {
	var profileM model.ProfileModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profileM).Error

	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return profileM.ToDomain(), nil
}

// UpsertProfile creates or overwrites a profile row. The id column is
// the conflict target, so repeated upserts for the same identity are
// idempotent.
func (repo *profileRepository) UpsertProfile(ctx context.Context, profile *entity.Profile) error {
	profileM := model.FromProfileDomain(profile)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "role", "updated_at"}),
		}).
		Create(profileM).Error
	if err != nil {
		return errors.Wrap(err, "failed to upsert profile")
	}

	return nil
}
