package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/haxball-league/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	nextID int64
	byRole map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{byRole: make(map[string]team.Team)}
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byRole[t.RoleID]; exists {
		return team.Team{}, team.ErrDuplicateRole
	}
	r.nextID++
	t.ID = r.nextID
	r.byRole[t.RoleID] = t
	return t, nil
}

func (r *TeamRepository) GetByRoleID(_ context.Context, roleID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byRole[roleID]
	return t, ok, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byRole))
	for _, t := range r.byRole {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
