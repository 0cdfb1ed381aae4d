package postgres

import (
	"context"

	"riskctl/internal/domain/entity"
	domainerrors "riskctl/internal/domain/errors"
	"riskctl/internal/domain/repository"
	"riskctl/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// profileRepository implements the repository.ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

// FindByOwnerAndApp retrieves the profile for a (risk user, app) pair.
func (repo *profileRepository) FindByOwnerAndApp(ctx context.Context, riskUserID int64, app string) (*entity.AppProfile, error) {
	var profileM model.RiskUserAppModel

	if err := repo.db.WithContext(ctx).
		Where("risk_user_id = ? AND app = ?", riskUserID, app).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find app profile")
	}

	return toProfileDomain(&profileM), nil
}

// FindByOwner retrieves all app profiles of a risk user.
func (repo *profileRepository) FindByOwner(ctx context.Context, riskUserID int64) ([]*entity.AppProfile, error) {
	var profileModels []*model.RiskUserAppModel

	if err := repo.db.WithContext(ctx).
		Where("risk_user_id = ?", riskUserID).
		Order("id").
		Find(&profileModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find app profiles by owner")
	}

	profiles := make([]*entity.AppProfile, 0, len(profileModels))
	for _, profileM := range profileModels {
		profiles = append(profiles, toProfileDomain(profileM))
	}

	return profiles, nil
}

// Create inserts a new profile and fills in its ID.
func (repo *profileRepository) Create(ctx context.Context, profile *entity.AppProfile) error {
	profileM := fromProfileDomain(profile)

	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrConflict, "profile created by concurrent report")
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrConflict, "risk user removed by concurrent merge")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewStorageError(err, "missing required app profile fields")
		}

		return domainerrors.NewStorageError(err, "failed to create app profile")
	}

	profile.ID = profileM.ID

	return nil
}

// Update persists a modified profile.
func (repo *profileRepository) Update(ctx context.Context, profile *entity.AppProfile) error {
	profileM := fromProfileDomain(profile)

	if err := repo.db.WithContext(ctx).Save(profileM).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to update app profile")
	}

	return nil
}

// Delete removes one profile row by primary key.
func (repo *profileRepository) Delete(ctx context.Context, id int64) error {
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.RiskUserAppModel{}).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to delete app profile")
	}

	return nil
}

// ReassignOwner repoints every profile owned by one of fromIDs to toID.
// The resolution engine folds colliding same-app rows into the survivor
// first; a unique violation here means a concurrent report created one in
// between, so it surfaces as a retryable conflict.
func (repo *profileRepository) ReassignOwner(ctx context.Context, fromIDs []int64, toID int64, updatedAt int64) error {
	if len(fromIDs) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.RiskUserAppModel{}).
		Where("risk_user_id IN ?", fromIDs).
		Updates(map[string]any{
			"risk_user_id": toID,
			"updated_at":   updatedAt,
		}).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrConflict, "app profile created concurrently during merge")
		}

		return domainerrors.NewStorageError(err, "failed to reassign app profiles")
	}

	return nil
}

// --- Mapper Functions ---

// toProfileDomain converts a GORM RiskUserAppModel to a domain AppProfile.
func toProfileDomain(data *model.RiskUserAppModel) *entity.AppProfile {
	if data == nil {
		return nil
	}

	return &entity.AppProfile{
		ID:               data.ID,
		RiskUserID:       data.RiskUserID,
		App:              data.App,
		UID:              data.UID,
		Nickname:         data.Nickname,
		RegisterTime:     data.RegisterTime,
		RegisterIP:       data.RegisterIP,
		GoogleNickname:   data.GoogleNickname,
		FacebookNickname: data.FacebookNickname,
		LinkedAt:         data.LinkedAt,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromProfileDomain converts a domain AppProfile to a GORM RiskUserAppModel.
func fromProfileDomain(data *entity.AppProfile) *model.RiskUserAppModel {
	if data == nil {
		return nil
	}

	return &model.RiskUserAppModel{
		ID:               data.ID,
		RiskUserID:       data.RiskUserID,
		App:              data.App,
		UID:              data.UID,
		Nickname:         data.Nickname,
		RegisterTime:     data.RegisterTime,
		RegisterIP:       data.RegisterIP,
		GoogleNickname:   data.GoogleNickname,
		FacebookNickname: data.FacebookNickname,
		LinkedAt:         data.LinkedAt,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
