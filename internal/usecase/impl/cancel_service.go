package impl

import (
	"context"
	"log/slog"

	deliverycontext "riskctl/internal/delivery/context"
	domainerrors "riskctl/internal/domain/errors"
	"riskctl/internal/domain/repository"
	"riskctl/internal/domain/service"
	"riskctl/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cancelService flips refund orders to canceled. The transition is one way:
// a canceled order never becomes valid again, and it stops counting toward
// the owning risk user's aggregates.
type cancelService struct {
	txManager repository.TransactionManager
	clock     service.Clock
	logger    *slog.Logger
}

// CancelServiceParams holds dependencies for CancelService, injected by Fx.
type CancelServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Clock     service.Clock
	Logger    *slog.Logger
}

// NewCancelService creates the cancellation instance.
func NewCancelService(params CancelServiceParams) usecase.CancelUsecase {
	return &cancelService{
		txManager: params.TxManager,
		clock:     params.Clock,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (s *cancelService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Cancel marks the (app, order_no) order canceled and reports how many valid
// refunds its risk user still has. The lookup, transition and recount share
// one transaction so the returned count matches the state the cancel left
// behind.
func (s *cancelService) Cancel(ctx context.Context, input *usecase.CancelInput) (*usecase.CancelOutput, error) {
	var remaining int64

	err := s.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		orderRepo := repos.OrderRepo()

		order, err := orderRepo.FindByAppOrderNo(ctx, input.App, input.OrderNo)
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if !order.Cancel(s.clock.Now()) {
			return domainerrors.ErrOrderAlreadyCanceled
		}

		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}

		remaining, err = orderRepo.CountValidByOwner(ctx, order.RiskUserID)

		return err
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("canceled refund order",
		slog.String("app", input.App),
		slog.String("orderNo", input.OrderNo),
		slog.Int64("remaining", remaining),
	)

	return &usecase.CancelOutput{RemainingRefundCount: remaining}, nil
}
