package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
)

// TransferRepository keeps offers in memory. Accept and Release append to the
// shared history repository while holding the offer lock, which gives them
// the same all-or-nothing behaviour as the SQL transaction.
type TransferRepository struct {
	mu      sync.RWMutex
	nextID  int64
	offers  map[int64]transfer.Offer
	history *HistoryRepository
}

func NewTransferRepository(historyRepo *HistoryRepository) *TransferRepository {
	return &TransferRepository{
		offers:  make(map[int64]transfer.Offer),
		history: historyRepo,
	}
}

func (r *TransferRepository) Create(_ context.Context, o transfer.Offer) (transfer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.offers {
		if existing.Status == transfer.StatusPending &&
			existing.PlayerID == o.PlayerID &&
			existing.TeamRoleID == o.TeamRoleID {
			return transfer.Offer{}, transfer.ErrDuplicatePending
		}
	}

	r.nextID++
	o.ID = r.nextID
	r.offers[o.ID] = cloneOffer(o)
	return cloneOffer(o), nil
}

func (r *TransferRepository) GetByID(_ context.Context, id int64) (transfer.Offer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.offers[id]
	if !ok {
		return transfer.Offer{}, false, nil
	}
	return cloneOffer(o), true, nil
}

func (r *TransferRepository) LatestForPlayer(_ context.Context, playerID, teamRoleID string) (transfer.Offer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest transfer.Offer
	found := false
	for _, o := range r.offers {
		if o.PlayerID != playerID || o.TeamRoleID != teamRoleID {
			continue
		}
		if !found || o.ID > latest.ID {
			latest = o
			found = true
		}
	}
	return cloneOffer(latest), found, nil
}

func (r *TransferRepository) List(_ context.Context, filter transfer.Filter) ([]transfer.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]transfer.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		if filter.TeamRoleID != "" && o.TeamRoleID != filter.TeamRoleID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, cloneOffer(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *TransferRepository) Resolve(_ context.Context, id int64, status transfer.Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.offers[id]
	if !ok || !o.Status.CanTransitionTo(status) {
		return false, nil
	}
	o.Status = status
	o.ResolvedAt = &at
	r.offers[id] = o
	return true, nil
}

func (r *TransferRepository) Accept(ctx context.Context, id int64, at time.Time, signing history.Entry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.offers[id]
	if !ok || o.Status != transfer.StatusPending {
		return false, nil
	}

	if _, err := r.history.Append(ctx, signing); err != nil {
		return false, err
	}
	o.Status = transfer.StatusAccepted
	o.ResolvedAt = &at
	r.offers[id] = o

	for otherID, other := range r.offers {
		if other.PlayerID == o.PlayerID && other.Status == transfer.StatusPending {
			other.Status = transfer.StatusRejected
			other.ResolvedAt = &at
			r.offers[otherID] = other
		}
	}
	return true, nil
}

func (r *TransferRepository) Release(ctx context.Context, playerID string, entry history.Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.history.Append(ctx, entry); err != nil {
		return 0, err
	}
	var removed int64
	for id, o := range r.offers {
		if o.PlayerID == playerID {
			delete(r.offers, id)
			removed++
		}
	}
	return removed, nil
}

func cloneOffer(o transfer.Offer) transfer.Offer {
	if o.ResolvedAt != nil {
		at := *o.ResolvedAt
		o.ResolvedAt = &at
	}
	return o
}
