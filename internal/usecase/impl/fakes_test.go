package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"riskctl/config"
	"riskctl/internal/domain/entity"
	"riskctl/internal/domain/repository"

	"github.com/pkg/errors"
)

// memoryStore is a stateful in-memory stand-in for the postgres layer. It
// implements all four repository contracts against plain slices and maps so
// the engines can be exercised end to end without a database.
type memoryStore struct {
	nextUserID       int64
	nextIdentifierID int64
	nextProfileID    int64
	nextOrderID      int64

	users       map[int64]*entity.RiskUser
	identifiers []*entity.Identifier
	profiles    []*entity.AppProfile
	orders      []*entity.RefundOrder

	// conflictUpserts makes the next N identifier upserts fail with
	// repository.ErrConflict, simulating lost unique-constraint races.
	conflictUpserts int

	// onLockMiss, when set, runs before a lock on a missing risk user is
	// reported as a conflict. Tests use it to simulate a concurrent merge
	// the retry can then observe.
	onLockMiss func(id int64)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: make(map[int64]*entity.RiskUser),
	}
}

// --- repository.RiskUserRepository ---

func (s *memoryStore) Create(ctx context.Context, user *entity.RiskUser) error {
	s.nextUserID++
	user.ID = s.nextUserID
	clone := *user
	s.users[user.ID] = &clone

	return nil
}

func (s *memoryStore) LockByIDs(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, ok := s.users[id]; !ok {
			if s.onLockMiss != nil {
				s.onLockMiss(id)
			}

			return errors.Wrap(repository.ErrConflict, "risk user removed by concurrent merge")
		}
	}

	return nil
}

func (s *memoryStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		delete(s.users, id)
	}

	return nil
}

// --- repository.IdentifierRepository ---

func (s *memoryStore) FindOwner(ctx context.Context, typ entity.IdentifierType, value, app string) (int64, error) {
	for _, identifier := range s.identifiers {
		if identifier.Type == typ && identifier.Value == value && identifier.App == app {
			return identifier.RiskUserID, nil
		}
	}

	return 0, repository.ErrIdentifierNotFound
}

func (s *memoryStore) FindOwnerAnyApp(ctx context.Context, typ entity.IdentifierType, value string) (int64, error) {
	var match *entity.Identifier
	for _, identifier := range s.identifiers {
		if identifier.Type != typ || identifier.Value != value {
			continue
		}
		if match == nil || identifier.ID < match.ID {
			match = identifier
		}
	}
	if match == nil {
		return 0, repository.ErrIdentifierNotFound
	}

	return match.RiskUserID, nil
}

func (s *memoryStore) Upsert(ctx context.Context, identifier *entity.Identifier) error {
	if s.conflictUpserts > 0 {
		s.conflictUpserts--

		return errors.Wrap(repository.ErrConflict, "identifier claimed by concurrent report")
	}

	for _, existing := range s.identifiers {
		if existing.Type == identifier.Type && existing.Value == identifier.Value && existing.App == identifier.App {
			existing.RiskUserID = identifier.RiskUserID

			return nil
		}
	}

	s.nextIdentifierID++
	clone := *identifier
	clone.ID = s.nextIdentifierID
	s.identifiers = append(s.identifiers, &clone)

	return nil
}

func (s *memoryStore) ReassignOwner(ctx context.Context, fromIDs []int64, toID int64) error {
	from := idSet(fromIDs)
	for _, identifier := range s.identifiers {
		if from[identifier.RiskUserID] {
			identifier.RiskUserID = toID
		}
	}

	return nil
}

// --- fakeProfileRepo wraps the store for the profile contract. The method
// sets of the four contracts overlap, so profiles and orders get thin
// wrapper types instead of living on memoryStore directly. ---

type fakeProfileRepo struct {
	store *memoryStore
}

func (r *fakeProfileRepo) FindByOwnerAndApp(ctx context.Context, riskUserID int64, app string) (*entity.AppProfile, error) {
	for _, profile := range r.store.profiles {
		if profile.RiskUserID == riskUserID && profile.App == app {
			clone := *profile

			return &clone, nil
		}
	}

	return nil, repository.ErrProfileNotFound
}

func (r *fakeProfileRepo) FindByOwner(ctx context.Context, riskUserID int64) ([]*entity.AppProfile, error) {
	found := make([]*entity.AppProfile, 0)
	for _, profile := range r.store.profiles {
		if profile.RiskUserID == riskUserID {
			clone := *profile
			found = append(found, &clone)
		}
	}

	return found, nil
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *entity.AppProfile) error {
	for _, existing := range r.store.profiles {
		if existing.RiskUserID == profile.RiskUserID && existing.App == profile.App {
			return errors.Wrap(repository.ErrConflict, "profile created concurrently")
		}
	}

	r.store.nextProfileID++
	profile.ID = r.store.nextProfileID
	clone := *profile
	r.store.profiles = append(r.store.profiles, &clone)

	return nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, profile *entity.AppProfile) error {
	for i, existing := range r.store.profiles {
		if existing.ID == profile.ID {
			clone := *profile
			r.store.profiles[i] = &clone

			return nil
		}
	}

	return errors.Errorf("profile %d not found", profile.ID)
}

func (r *fakeProfileRepo) Delete(ctx context.Context, id int64) error {
	for i, profile := range r.store.profiles {
		if profile.ID == id {
			r.store.profiles = append(r.store.profiles[:i], r.store.profiles[i+1:]...)

			return nil
		}
	}

	return errors.Errorf("profile %d not found", id)
}

// ReassignOwner enforces the (risk_user_id, app) unique index the real
// table declares: repointing a row onto an app the target already holds a
// profile for fails the same way Postgres would.
func (r *fakeProfileRepo) ReassignOwner(ctx context.Context, fromIDs []int64, toID int64, updatedAt int64) error {
	from := idSet(fromIDs)
	targetApps := make(map[string]bool)
	for _, profile := range r.store.profiles {
		if profile.RiskUserID == toID {
			targetApps[profile.App] = true
		}
	}

	for _, profile := range r.store.profiles {
		if !from[profile.RiskUserID] {
			continue
		}
		if targetApps[profile.App] {
			return errors.Errorf("duplicate key value violates unique constraint %q", "uk_user_app")
		}

		profile.RiskUserID = toID
		profile.UpdatedAt = updatedAt
		targetApps[profile.App] = true
	}

	return nil
}

// --- fakeOrderRepo wraps the store for the refund order contract. ---

type fakeOrderRepo struct {
	store *memoryStore
}

func (r *fakeOrderRepo) FindByAppOrderNo(ctx context.Context, app, orderNo string) (*entity.RefundOrder, error) {
	for _, order := range r.store.orders {
		if order.App == app && order.OrderNo == orderNo {
			clone := *order

			return &clone, nil
		}
	}

	return nil, repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.RefundOrder) error {
	for _, existing := range r.store.orders {
		if existing.App == order.App && existing.OrderNo == order.OrderNo {
			return errors.Wrap(repository.ErrConflict, "refund order reported concurrently")
		}
	}

	r.store.nextOrderID++
	order.ID = r.store.nextOrderID
	clone := *order
	r.store.orders = append(r.store.orders, &clone)

	return nil
}

func (r *fakeOrderRepo) FindValidByOwner(ctx context.Context, riskUserID int64) ([]*entity.RefundOrder, error) {
	found := make([]*entity.RefundOrder, 0)
	for _, order := range r.store.orders {
		if order.RiskUserID == riskUserID && order.IsValid() {
			clone := *order
			found = append(found, &clone)
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].RefundedAt > found[j].RefundedAt
	})

	return found, nil
}

func (r *fakeOrderRepo) CountValidByOwner(ctx context.Context, riskUserID int64) (int64, error) {
	var count int64
	for _, order := range r.store.orders {
		if order.RiskUserID == riskUserID && order.IsValid() {
			count++
		}
	}

	return count, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.RefundOrder) error {
	for i, existing := range r.store.orders {
		if existing.ID == order.ID {
			clone := *order
			r.store.orders[i] = &clone

			return nil
		}
	}

	return errors.Errorf("refund order %d not found", order.ID)
}

func (r *fakeOrderRepo) ReassignOwner(ctx context.Context, fromIDs []int64, toID int64, updatedAt int64) error {
	from := idSet(fromIDs)
	for _, order := range r.store.orders {
		if from[order.RiskUserID] {
			order.RiskUserID = toID
			order.UpdatedAt = updatedAt
		}
	}

	return nil
}

// --- transaction manager ---

// memoryTxManager runs the function directly against the shared store. The
// fakes do not simulate rollback; conflict tests only assert on the error
// path and the post-retry state.
type memoryTxManager struct {
	store *memoryStore
}

func (m *memoryTxManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	return fn(&memoryFactory{store: m.store})
}

type memoryFactory struct {
	store *memoryStore
}

func (f *memoryFactory) RiskUserRepo() repository.RiskUserRepository {
	return f.store
}

func (f *memoryFactory) IdentifierRepo() repository.IdentifierRepository {
	return f.store
}

func (f *memoryFactory) ProfileRepo() repository.ProfileRepository {
	return &fakeProfileRepo{store: f.store}
}

func (f *memoryFactory) OrderRepo() repository.RefundOrderRepository {
	return &fakeOrderRepo{store: f.store}
}

// --- helpers ---

type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() int64 {
	return c.now
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(attempts int) *config.Config {
	return &config.Config{
		Risk: &config.RiskConfig{ResolveAttempts: attempts},
	}
}
