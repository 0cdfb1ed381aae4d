package postgres

import (
	"context"
	"slices"

	"riskctl/internal/domain/entity"
	domainerrors "riskctl/internal/domain/errors"
	"riskctl/internal/domain/repository"
	"riskctl/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// riskUserRepository implements the repository.RiskUserRepository interface.
type riskUserRepository struct {
	db *gorm.DB
}

// NewRiskUserRepository is the constructor for riskUserRepository.
func NewRiskUserRepository(db *gorm.DB) repository.RiskUserRepository {
	return &riskUserRepository{
		db: db,
	}
}

// Create persists a new risk user and fills in the sequence-assigned ID.
func (repo *riskUserRepository) Create(ctx context.Context, user *entity.RiskUser) error {
	userM := &model.RiskUserModel{
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to create risk user")
	}

	user.ID = userM.ID

	return nil
}

// LockByIDs takes FOR UPDATE locks on the given risk user rows. IDs are
// locked in ascending order so two overlapping merges acquire locks in the
// same sequence instead of deadlocking. A row missing from the result was
// deleted by a concurrent merge after candidate discovery; that surfaces
// as a retryable conflict, never as a silent partial lock.
func (repo *riskUserRepository) LockByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var locked []model.RiskUserModel
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id IN ?", sorted).
		Order("id").
		Find(&locked).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to lock risk users")
	}

	if len(locked) != len(sorted) {
		return errors.Wrap(repository.ErrConflict, "risk user removed by concurrent merge")
	}

	return nil
}

// DeleteByIDs removes merged-away risk users.
func (repo *riskUserRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&model.RiskUserModel{}).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to delete risk users")
	}

	return nil
}
