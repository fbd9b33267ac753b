// Package cache decorates repositories with a short-lived read-through cache
// for the read API. Writes pass straight through and invalidate the affected
// namespaces. The Writer constructors share the same store but never read from
// it, so command paths see the database while still invalidating what the
// read API holds.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	basecache "github.com/riskibarqy/haxball-league/internal/platform/cache"
)

const (
	teamsNamespace   = "teams"
	offersNamespace  = "offers"
	historyNamespace = "history"
)

type TeamRepository struct {
	next   team.Repository
	cache  *basecache.Store
	bypass bool
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func NewTeamWriter(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache, bypass: true}
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) (team.Team, error) {
	created, err := r.next.Create(ctx, t)
	if err != nil {
		return team.Team{}, err
	}
	r.cache.Invalidate(teamsNamespace)
	return created, nil
}

func (r *TeamRepository) GetByRoleID(ctx context.Context, roleID string) (team.Team, bool, error) {
	if r.bypass {
		return r.next.GetByRoleID(ctx, roleID)
	}
	cached, err := basecache.Load(ctx, r.cache, teamsNamespace, "role:"+roleID, func(ctx context.Context) (cachedTeamByRole, error) {
		item, exists, err := r.next.GetByRoleID(ctx, roleID)
		if err != nil {
			return cachedTeamByRole{}, err
		}
		return cachedTeamByRole{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	if r.bypass {
		return r.next.List(ctx)
	}
	items, err := basecache.Load(ctx, r.cache, teamsNamespace, "list", r.next.List)
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

type cachedTeamByRole struct {
	value  team.Team
	exists bool
}

type HistoryRepository struct {
	next   history.Repository
	cache  *basecache.Store
	bypass bool
}

func NewHistoryRepository(next history.Repository, cache *basecache.Store) *HistoryRepository {
	return &HistoryRepository{next: next, cache: cache}
}

func NewHistoryWriter(next history.Repository, cache *basecache.Store) *HistoryRepository {
	return &HistoryRepository{next: next, cache: cache, bypass: true}
}

func (r *HistoryRepository) Append(ctx context.Context, e history.Entry) (history.Entry, error) {
	appended, err := r.next.Append(ctx, e)
	if err != nil {
		return history.Entry{}, err
	}
	r.cache.Invalidate(historyNamespace)
	return appended, nil
}

func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]history.Entry, error) {
	limit = history.ClampLimit(limit)
	if r.bypass {
		return r.next.ListRecent(ctx, limit)
	}
	items, err := basecache.Load(ctx, r.cache, historyNamespace, strconv.Itoa(limit), func(ctx context.Context) ([]history.Entry, error) {
		return r.next.ListRecent(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return append([]history.Entry(nil), items...), nil
}

// TransferRepository caches only List; single-offer reads feed state
// transitions and always hit the store.
type TransferRepository struct {
	next   transfer.Repository
	cache  *basecache.Store
	bypass bool
}

func NewTransferRepository(next transfer.Repository, cache *basecache.Store) *TransferRepository {
	return &TransferRepository{next: next, cache: cache}
}

func NewTransferWriter(next transfer.Repository, cache *basecache.Store) *TransferRepository {
	return &TransferRepository{next: next, cache: cache, bypass: true}
}

func (r *TransferRepository) Create(ctx context.Context, o transfer.Offer) (transfer.Offer, error) {
	created, err := r.next.Create(ctx, o)
	if err != nil {
		return transfer.Offer{}, err
	}
	r.cache.Invalidate(offersNamespace)
	return created, nil
}

func (r *TransferRepository) GetByID(ctx context.Context, id int64) (transfer.Offer, bool, error) {
	return r.next.GetByID(ctx, id)
}

func (r *TransferRepository) LatestForPlayer(ctx context.Context, playerID, teamRoleID string) (transfer.Offer, bool, error) {
	return r.next.LatestForPlayer(ctx, playerID, teamRoleID)
}

func (r *TransferRepository) List(ctx context.Context, filter transfer.Filter) ([]transfer.Offer, error) {
	if r.bypass {
		return r.next.List(ctx, filter)
	}
	key := filter.TeamRoleID + ":" + string(filter.Status)
	items, err := basecache.Load(ctx, r.cache, offersNamespace, key, func(ctx context.Context) ([]transfer.Offer, error) {
		return r.next.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return cloneOffers(items), nil
}

func (r *TransferRepository) Resolve(ctx context.Context, id int64, status transfer.Status, at time.Time) (bool, error) {
	ok, err := r.next.Resolve(ctx, id, status, at)
	if err != nil {
		return false, err
	}
	r.cache.Invalidate(offersNamespace)
	return ok, nil
}

func (r *TransferRepository) Accept(ctx context.Context, id int64, at time.Time, signing history.Entry) (bool, error) {
	ok, err := r.next.Accept(ctx, id, at, signing)
	if err != nil {
		return false, err
	}
	r.cache.Invalidate(offersNamespace, historyNamespace)
	return ok, nil
}

func (r *TransferRepository) Release(ctx context.Context, playerID string, entry history.Entry) (int64, error) {
	removed, err := r.next.Release(ctx, playerID, entry)
	if err != nil {
		return 0, err
	}
	r.cache.Invalidate(offersNamespace, historyNamespace)
	return removed, nil
}

func cloneOffers(items []transfer.Offer) []transfer.Offer {
	out := make([]transfer.Offer, len(items))
	for i, o := range items {
		if o.ResolvedAt != nil {
			at := *o.ResolvedAt
			o.ResolvedAt = &at
		}
		out[i] = o
	}
	return out
}
