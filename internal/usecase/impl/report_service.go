package impl

import (
	"context"
	"log/slog"
	"strings"

	"riskctl/config"
	deliverycontext "riskctl/internal/delivery/context"
	"riskctl/internal/domain/entity"
	domainerrors "riskctl/internal/domain/errors"
	"riskctl/internal/domain/repository"
	"riskctl/internal/domain/service"
	"riskctl/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// reportService is the resolution engine. Every reported refund event is
// associated with exactly one risk user; events that link identifiers
// recorded against different risk users trigger a merge of those users.
type reportService struct {
	txManager repository.TransactionManager
	clock     service.Clock
	logger    *slog.Logger
	attempts  int
}

// ReportServiceParams holds dependencies for ReportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Clock     service.Clock
	Logger    *slog.Logger
	Config    *config.Config
}

// NewReportService creates the resolution engine instance.
func NewReportService(params ReportServiceParams) usecase.ReportUsecase {
	return &reportService{
		txManager: params.TxManager,
		clock:     params.Clock,
		logger:    params.Logger,
		attempts:  params.Config.Risk.ResolveAttempts,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (s *reportService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Report runs the full resolution for one refund event. The whole sequence
// (idempotency check, candidate discovery, merge, persists) executes inside
// one transaction; a unique-constraint conflict with a concurrent report
// rolls everything back and the resolution is retried from scratch, bounded
// by the configured attempt budget.
func (s *reportService) Report(ctx context.Context, input *usecase.ReportInput) (*usecase.ReportOutput, error) {
	amount, err := parseRefundAmount(input.RefundAmount)
	if err != nil {
		return nil, err
	}
	if input.RefundTime < 0 {
		return nil, domainerrors.ErrInvalidParameter.WithDetails("refund_time must be a non-negative unix timestamp")
	}

	identifiers := entity.ExtractIdentifiers(map[entity.IdentifierType]string{
		entity.IdentifierPhone:              input.Phone,
		entity.IdentifierPaymentAccount:     input.PaymentAccount,
		entity.IdentifierGoogleID:           input.GoogleID,
		entity.IdentifierFacebookBusinessID: input.FacebookBusinessID,
	})

	var resolved int64
	for attempt := 1; ; attempt++ {
		resolved, err = s.resolveOnce(ctx, input, amount, identifiers)
		if err == nil {
			break
		}

		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		if attempt >= s.attempts {
			return nil, domainerrors.NewStorageError(err, "refund report exhausted conflict retries")
		}

		s.log(ctx).Warn("refund report conflicted with concurrent write, retrying",
			slog.String("app", input.App),
			slog.String("orderNo", input.OrderNo),
			slog.Int("attempt", attempt),
		)
	}

	return &usecase.ReportOutput{RiskUserID: resolved}, nil
}

// resolveOnce executes one transactional resolution attempt.
func (s *reportService) resolveOnce(ctx context.Context, input *usecase.ReportInput, amount decimal.Decimal, identifiers entity.IdentifierSet) (int64, error) {
	var resolved int64

	err := s.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		now := s.clock.Now()
		orderRepo := repos.OrderRepo()

		// Idempotency: a re-reported (app, order_no) returns the prior
		// owner without further writes.
		existing, err := orderRepo.FindByAppOrderNo(ctx, input.App, input.OrderNo)
		if err == nil {
			resolved = existing.RiskUserID

			return nil
		}
		if !errors.Is(err, repository.ErrOrderNotFound) {
			return err
		}

		identifierRepo := repos.IdentifierRepo()

		candidates, err := s.findCandidates(ctx, identifierRepo, identifiers, input.App)
		if err != nil {
			return err
		}

		owner, err := s.selectOwner(ctx, repos, candidates, now)
		if err != nil {
			return err
		}

		for _, identifier := range identifiers.Ordered() {
			identifier.RiskUserID = owner
			identifier.App = input.App
			identifier.CreatedAt = now
			if err := identifierRepo.Upsert(ctx, &identifier); err != nil {
				return err
			}
		}

		if err := s.upsertProfile(ctx, repos.ProfileRepo(), owner, input, now); err != nil {
			return err
		}

		order := &entity.RefundOrder{
			RiskUserID:     owner,
			App:            input.App,
			OrderNo:        input.OrderNo,
			RefundAmount:   amount,
			PaymentChannel: input.PaymentChannel,
			Status:         entity.OrderStatusValid,
			RefundedAt:     input.RefundTime,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		resolved = owner

		return nil
	})
	if err != nil {
		return 0, err
	}

	return resolved, nil
}

// findCandidates looks up the owning risk user of every extracted
// identifier: first scoped to the event's app, then across all apps. The
// returned list preserves iteration order and may contain duplicates.
func (s *reportService) findCandidates(ctx context.Context, identifierRepo repository.IdentifierRepository, identifiers entity.IdentifierSet, app string) ([]int64, error) {
	candidates := make([]int64, 0, len(identifiers))

	for _, identifier := range identifiers.Ordered() {
		owner, err := identifierRepo.FindOwner(ctx, identifier.Type, identifier.Value, app)
		if errors.Is(err, repository.ErrIdentifierNotFound) {
			owner, err = identifierRepo.FindOwnerAnyApp(ctx, identifier.Type, identifier.Value)
		}
		if err != nil {
			if errors.Is(err, repository.ErrIdentifierNotFound) {
				continue
			}

			return nil, err
		}

		candidates = append(candidates, owner)
	}

	return candidates, nil
}

// selectOwner decides which risk user the event belongs to: a fresh one
// when nothing matched, the single match when exactly one user is involved,
// or the merge survivor when the event links several.
func (s *reportService) selectOwner(ctx context.Context, repos repository.RepositoryFactory, candidates []int64, now int64) (int64, error) {
	distinct := distinctIDs(candidates)

	switch len(distinct) {
	case 0:
		// No linkage: the event gets a brand-new risk user. Two such
		// events can never merge later; that is intended behavior.
		user := &entity.RiskUser{CreatedAt: now, UpdatedAt: now}
		if err := repos.RiskUserRepo().Create(ctx, user); err != nil {
			return 0, err
		}

		return user.ID, nil
	case 1:
		// The candidate is locked and its existence re-verified: a
		// concurrent merge may have deleted it after discovery, in which
		// case the lock conflicts and the resolution is retried.
		if err := repos.RiskUserRepo().LockByIDs(ctx, distinct); err != nil {
			return 0, err
		}

		return distinct[0], nil
	default:
		return s.merge(ctx, repos, distinct, now)
	}
}

// merge collapses several risk users into the one with the numerically
// smallest ID: all identifier, profile and order rows of the losers are
// repointed to the survivor, then the loser records are deleted. All
// involved user rows are locked first so two concurrent reports cannot
// merge the same users in opposite directions.
func (s *reportService) merge(ctx context.Context, repos repository.RepositoryFactory, candidates []int64, now int64) (int64, error) {
	if err := repos.RiskUserRepo().LockByIDs(ctx, candidates); err != nil {
		return 0, err
	}

	survivor := candidates[0]
	for _, id := range candidates[1:] {
		if id < survivor {
			survivor = id
		}
	}

	losers := make([]int64, 0, len(candidates)-1)
	for _, id := range candidates {
		if id != survivor {
			losers = append(losers, id)
		}
	}

	if err := repos.IdentifierRepo().ReassignOwner(ctx, losers, survivor); err != nil {
		return 0, err
	}
	if err := s.mergeProfiles(ctx, repos.ProfileRepo(), survivor, losers, now); err != nil {
		return 0, err
	}
	if err := repos.ProfileRepo().ReassignOwner(ctx, losers, survivor, now); err != nil {
		return 0, err
	}
	if err := repos.OrderRepo().ReassignOwner(ctx, losers, survivor, now); err != nil {
		return 0, err
	}
	if err := repos.RiskUserRepo().DeleteByIDs(ctx, losers); err != nil {
		return 0, err
	}

	s.log(ctx).Info("merged risk users",
		slog.Int64("survivor", survivor),
		slog.Any("merged", losers),
	)

	return survivor, nil
}

// mergeProfiles folds loser profiles into the survivor's row wherever both
// sides hold a profile for the same app. The bulk repoint that follows
// would trip the (risk_user_id, app) unique index on those rows, so they
// are field-merged and the loser's row deleted first.
func (s *reportService) mergeProfiles(ctx context.Context, profileRepo repository.ProfileRepository, survivor int64, losers []int64, now int64) error {
	survivorProfiles, err := profileRepo.FindByOwner(ctx, survivor)
	if err != nil {
		return err
	}

	byApp := make(map[string]*entity.AppProfile, len(survivorProfiles))
	for _, profile := range survivorProfiles {
		byApp[profile.App] = profile
	}

	for _, loser := range losers {
		loserProfiles, err := profileRepo.FindByOwner(ctx, loser)
		if err != nil {
			return err
		}

		for _, loserProfile := range loserProfiles {
			kept, ok := byApp[loserProfile.App]
			if !ok {
				// No collision; the bulk repoint moves it wholesale.
				continue
			}

			kept.Merge(loserProfile, now)
			if err := profileRepo.Update(ctx, kept); err != nil {
				return err
			}
			if err := profileRepo.Delete(ctx, loserProfile.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

// upsertProfile records the event's per-app observations against the
// resolved risk user. Only non-empty incoming fields overwrite.
func (s *reportService) upsertProfile(ctx context.Context, profileRepo repository.ProfileRepository, owner int64, input *usecase.ReportInput, now int64) error {
	incoming := &entity.AppProfile{
		RiskUserID:       owner,
		App:              input.App,
		UID:              input.AppUID,
		Nickname:         input.Nickname,
		RegisterTime:     input.RegisterTime,
		RegisterIP:       input.RegisterIP,
		GoogleNickname:   input.GoogleNickname,
		FacebookNickname: input.FacebookNickname,
	}

	existing, err := profileRepo.FindByOwnerAndApp(ctx, owner, input.App)
	if err == nil {
		existing.Merge(incoming, now)

		return profileRepo.Update(ctx, existing)
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return err
	}

	incoming.LinkedAt = now
	incoming.CreatedAt = now
	incoming.UpdatedAt = now

	return profileRepo.Create(ctx, incoming)
}

// parseRefundAmount validates the amount defensively: the delivery layer
// already checks syntax, but the engine never trusts numeric input.
func parseRefundAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, domainerrors.ErrInvalidParameter.WithDetails("refund_amount must be a decimal number")
	}
	if amount.IsNegative() {
		return decimal.Zero, domainerrors.ErrInvalidParameter.WithDetails("refund_amount must not be negative")
	}

	return amount, nil
}

// distinctIDs deduplicates while preserving first-seen order.
func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	distinct := make([]int64, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	return distinct
}
