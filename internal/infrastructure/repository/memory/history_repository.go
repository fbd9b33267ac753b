package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
)

type HistoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []history.Entry
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Append(_ context.Context, e history.Entry) (history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	r.entries = append(r.entries, e)
	return e, nil
}

// ListRecent orders by timestamp, then insertion, newest first.
func (r *HistoryRepository) ListRecent(_ context.Context, limit int) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit = history.ClampLimit(limit)
	out := make([]history.Entry, 0, min(limit, len(r.entries)))
	sorted := append([]history.Entry(nil), r.entries...)
	sortNewestFirst(sorted)
	for i := 0; i < len(sorted) && len(out) < limit; i++ {
		out = append(out, sorted[i])
	}
	return out, nil
}

func sortNewestFirst(entries []history.Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return newer(entries[i], entries[j]) })
}

func newer(a, b history.Entry) bool {
	if !a.OccurredAt.Equal(b.OccurredAt) {
		return a.OccurredAt.After(b.OccurredAt)
	}
	return a.ID > b.ID
}
