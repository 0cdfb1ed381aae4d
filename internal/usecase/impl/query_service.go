package impl

import (
	"context"
	"log/slog"
	"sort"

	deliverycontext "riskctl/internal/delivery/context"
	"riskctl/internal/domain/entity"
	"riskctl/internal/domain/repository"
	"riskctl/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// queryService is the read path. It runs outside the transaction manager:
// a query observes whatever committed state exists at lookup time.
type queryService struct {
	identifierRepo repository.IdentifierRepository
	profileRepo    repository.ProfileRepository
	orderRepo      repository.RefundOrderRepository
	logger         *slog.Logger
}

// QueryServiceParams holds dependencies for QueryService, injected by Fx.
type QueryServiceParams struct {
	fx.In

	IdentifierRepo repository.IdentifierRepository
	ProfileRepo    repository.ProfileRepository
	OrderRepo      repository.RefundOrderRepository
	Logger         *slog.Logger
}

// NewQueryService creates the risk query instance.
func NewQueryService(params QueryServiceParams) usecase.QueryUsecase {
	return &queryService{
		identifierRepo: params.IdentifierRepo,
		profileRepo:    params.ProfileRepo,
		orderRepo:      params.OrderRepo,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (s *queryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Query resolves the supplied identifiers to a risk user and aggregates its
// valid refund history per app. Identifiers are tried in the fixed type
// priority order and the first match wins; the remaining ones are ignored
// even if they would resolve to a different user.
func (s *queryService) Query(ctx context.Context, input *usecase.QueryInput) (*usecase.QueryOutput, error) {
	identifiers := entity.ExtractIdentifiers(map[entity.IdentifierType]string{
		entity.IdentifierPhone:              input.Phone,
		entity.IdentifierPaymentAccount:     input.PaymentAccount,
		entity.IdentifierGoogleID:           input.GoogleID,
		entity.IdentifierFacebookBusinessID: input.FacebookBusinessID,
	})

	owner, found, err := s.findOwner(ctx, identifiers)
	if err != nil {
		return nil, err
	}
	if !found {
		return emptyQueryOutput(nil), nil
	}

	s.log(ctx).Debug("resolved risk user for query", slog.Int64("riskUserID", owner))

	orders, err := s.orderRepo.FindValidByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		// Known user, but every refund was canceled. Not at risk.
		return emptyQueryOutput(&owner), nil
	}

	profiles, err := s.profileRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	return s.aggregate(owner, orders, profiles), nil
}

// findOwner returns the owning risk user of the first matching identifier.
func (s *queryService) findOwner(ctx context.Context, identifiers entity.IdentifierSet) (int64, bool, error) {
	for _, identifier := range identifiers.Ordered() {
		owner, err := s.identifierRepo.FindOwnerAnyApp(ctx, identifier.Type, identifier.Value)
		if errors.Is(err, repository.ErrIdentifierNotFound) {
			continue
		}
		if err != nil {
			return 0, false, err
		}

		return owner, true, nil
	}

	return 0, false, nil
}

// aggregate groups the valid orders by app and folds the per-app profile
// into each summary row. Apps appear in descending refund amount order.
func (s *queryService) aggregate(owner int64, orders []*entity.RefundOrder, profiles []*entity.AppProfile) *usecase.QueryOutput {
	profilesByApp := make(map[string]*entity.AppProfile, len(profiles))
	for _, profile := range profiles {
		profilesByApp[profile.App] = profile
	}

	type appTotals struct {
		count  int64
		amount decimal.Decimal
	}

	totalsByApp := make(map[string]*appTotals)
	apps := make([]string, 0)
	total := decimal.Zero

	for _, order := range orders {
		totals, ok := totalsByApp[order.App]
		if !ok {
			totals = &appTotals{amount: decimal.Zero}
			totalsByApp[order.App] = totals
			apps = append(apps, order.App)
		}
		totals.count++
		totals.amount = totals.amount.Add(order.RefundAmount)
		total = total.Add(order.RefundAmount)
	}

	summary := make([]usecase.AppRefundSummary, 0, len(apps))
	for _, app := range apps {
		totals := totalsByApp[app]
		row := usecase.AppRefundSummary{
			App:          app,
			RefundCount:  totals.count,
			RefundAmount: totals.amount.StringFixed(2),
		}
		if profile, ok := profilesByApp[app]; ok {
			row.AppUID = profile.UID
			row.Nickname = profile.Nickname
		}
		summary = append(summary, row)
	}

	sort.SliceStable(summary, func(i, j int) bool {
		left := totalsByApp[summary[i].App].amount
		right := totalsByApp[summary[j].App].amount

		return left.GreaterThan(right)
	})

	return &usecase.QueryOutput{
		IsRisk:            true,
		RiskUserID:        &owner,
		TotalRefundCount:  int64(len(orders)),
		TotalRefundAmount: total.StringFixed(2),
		RefundSummary:     summary,
	}
}

// emptyQueryOutput is the not-at-risk shape, with or without a known user.
func emptyQueryOutput(owner *int64) *usecase.QueryOutput {
	return &usecase.QueryOutput{
		IsRisk:            false,
		RiskUserID:        owner,
		TotalRefundCount:  0,
		TotalRefundAmount: "0.00",
		RefundSummary:     []usecase.AppRefundSummary{},
	}
}
