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

// identifierRepository implements the repository.IdentifierRepository interface.
type identifierRepository struct {
	db *gorm.DB
}

// NewIdentifierRepository is the constructor for identifierRepository.
func NewIdentifierRepository(db *gorm.DB) repository.IdentifierRepository {
	return &identifierRepository{
		db: db,
	}
}

// FindOwner returns the owning risk user for (type, value) within one app.
func (repo *identifierRepository) FindOwner(ctx context.Context, typ entity.IdentifierType, value, app string) (int64, error) {
	var identifierM model.RiskIdentifierModel

	if err := repo.db.WithContext(ctx).
		Select("risk_user_id").
		Where("type = ? AND value = ? AND app = ?", string(typ), value, app).
		First(&identifierM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, repository.ErrIdentifierNotFound
		}

		return 0, errors.Wrap(err, "failed to find identifier owner")
	}

	return identifierM.RiskUserID, nil
}

// FindOwnerAnyApp returns the owning risk user for (type, value) across all
// apps. When the pair exists under several apps the oldest row wins, which
// keeps the lookup deterministic.
func (repo *identifierRepository) FindOwnerAnyApp(ctx context.Context, typ entity.IdentifierType, value string) (int64, error) {
	var identifierM model.RiskIdentifierModel

	if err := repo.db.WithContext(ctx).
		Select("risk_user_id").
		Where("type = ? AND value = ?", string(typ), value).
		Order("id").
		First(&identifierM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, repository.ErrIdentifierNotFound
		}

		return 0, errors.Wrap(err, "failed to find identifier owner across apps")
	}

	return identifierM.RiskUserID, nil
}

// Upsert creates the (type, value, app) row or repoints an existing one.
// A concurrent insert of the same triple trips the unique index and is
// surfaced as repository.ErrConflict so the caller can retry the whole
// resolution.
func (repo *identifierRepository) Upsert(ctx context.Context, identifier *entity.Identifier) error {
	var existing model.RiskIdentifierModel

	err := repo.db.WithContext(ctx).
		Where("type = ? AND value = ? AND app = ?", string(identifier.Type), identifier.Value, identifier.App).
		First(&existing).Error
	if err == nil {
		identifier.ID = existing.ID
		if existing.RiskUserID == identifier.RiskUserID {
			return nil
		}

		if err := repo.db.WithContext(ctx).
			Model(&model.RiskIdentifierModel{}).
			Where("id = ?", existing.ID).
			Update("risk_user_id", identifier.RiskUserID).Error; err != nil {
			return domainerrors.NewStorageError(err, "failed to repoint identifier")
		}

		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(err, "failed to look up identifier for upsert")
	}

	identifierM := &model.RiskIdentifierModel{
		RiskUserID: identifier.RiskUserID,
		App:        identifier.App,
		Type:       string(identifier.Type),
		Value:      identifier.Value,
		CreatedAt:  identifier.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(identifierM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrConflict, "identifier claimed by concurrent report")
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrConflict, "risk user removed by concurrent merge")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewStorageError(err, "missing required identifier fields")
		}

		return domainerrors.NewStorageError(err, "failed to create identifier")
	}

	identifier.ID = identifierM.ID

	return nil
}

// ReassignOwner repoints every identifier owned by one of fromIDs to toID.
func (repo *identifierRepository) ReassignOwner(ctx context.Context, fromIDs []int64, toID int64) error {
	if len(fromIDs) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.RiskIdentifierModel{}).
		Where("risk_user_id IN ?", fromIDs).
		Update("risk_user_id", toID).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to reassign identifiers")
	}

	return nil
}
