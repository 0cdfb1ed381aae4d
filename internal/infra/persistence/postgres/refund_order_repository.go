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

// refundOrderRepository implements the repository.RefundOrderRepository interface.
type refundOrderRepository struct {
	db *gorm.DB
}

// NewRefundOrderRepository is the constructor for refundOrderRepository.
func NewRefundOrderRepository(db *gorm.DB) repository.RefundOrderRepository {
	return &refundOrderRepository{
		db: db,
	}
}

// FindByAppOrderNo retrieves the order for the unique (app, order_no) key.
func (repo *refundOrderRepository) FindByAppOrderNo(ctx context.Context, app, orderNo string) (*entity.RefundOrder, error) {
	var orderM model.RefundOrderModel

	if err := repo.db.WithContext(ctx).
		Where("app = ? AND order_no = ?", app, orderNo).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find refund order by app and order no")
	}

	return toOrderDomain(&orderM), nil
}

// Create inserts a new refund order. A duplicate (app, order_no) insert is
// surfaced as repository.ErrConflict so the caller can rerun its
// idempotency check.
func (repo *refundOrderRepository) Create(ctx context.Context, order *entity.RefundOrder) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrConflict, "refund order reported concurrently")
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrConflict, "risk user removed by concurrent merge")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewStorageError(err, "missing required refund order fields")
		}

		return domainerrors.NewStorageError(err, "failed to create refund order")
	}

	order.ID = orderM.ID

	return nil
}

// FindValidByOwner retrieves all valid orders of a risk user, newest refund
// first.
func (repo *refundOrderRepository) FindValidByOwner(ctx context.Context, riskUserID int64) ([]*entity.RefundOrder, error) {
	var orderModels []*model.RefundOrderModel

	if err := repo.db.WithContext(ctx).
		Where("risk_user_id = ? AND status = ?", riskUserID, int(entity.OrderStatusValid)).
		Order("refunded_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find valid refund orders")
	}

	orders := make([]*entity.RefundOrder, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// CountValidByOwner returns the number of valid orders of a risk user.
func (repo *refundOrderRepository) CountValidByOwner(ctx context.Context, riskUserID int64) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.RefundOrderModel{}).
		Where("risk_user_id = ? AND status = ?", riskUserID, int(entity.OrderStatusValid)).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count valid refund orders")
	}

	return count, nil
}

// Update persists a modified order (the status transition).
func (repo *refundOrderRepository) Update(ctx context.Context, order *entity.RefundOrder) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Save(orderM).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to update refund order")
	}

	return nil
}

// ReassignOwner repoints every order owned by one of fromIDs to toID.
func (repo *refundOrderRepository) ReassignOwner(ctx context.Context, fromIDs []int64, toID int64, updatedAt int64) error {
	if len(fromIDs) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.RefundOrderModel{}).
		Where("risk_user_id IN ?", fromIDs).
		Updates(map[string]any{
			"risk_user_id": toID,
			"updated_at":   updatedAt,
		}).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to reassign refund orders")
	}

	return nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM RefundOrderModel to a domain RefundOrder.
func toOrderDomain(data *model.RefundOrderModel) *entity.RefundOrder {
	if data == nil {
		return nil
	}

	return &entity.RefundOrder{
		ID:             data.ID,
		RiskUserID:     data.RiskUserID,
		App:            data.App,
		OrderNo:        data.OrderNo,
		RefundAmount:   data.RefundAmount,
		PaymentChannel: data.PaymentChannel,
		Status:         entity.OrderStatus(data.Status),
		RefundedAt:     data.RefundedAt,
		CanceledAt:     data.CanceledAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain RefundOrder to a GORM RefundOrderModel.
func fromOrderDomain(data *entity.RefundOrder) *model.RefundOrderModel {
	if data == nil {
		return nil
	}

	return &model.RefundOrderModel{
		ID:             data.ID,
		RiskUserID:     data.RiskUserID,
		App:            data.App,
		OrderNo:        data.OrderNo,
		RefundAmount:   data.RefundAmount,
		PaymentChannel: data.PaymentChannel,
		Status:         int(data.Status),
		RefundedAt:     data.RefundedAt,
		CanceledAt:     data.CanceledAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
