package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/haxball-league/internal/domain/roster"
)

// Directory is an in-process guild: members and the roles they hold. It backs
// tests and DB_DRIVER=memory runs without a Discord connection.
type Directory struct {
	mu      sync.RWMutex
	members map[string]roster.Actor
}

func NewDirectory(members ...roster.Actor) *Directory {
	d := &Directory{members: make(map[string]roster.Actor, len(members))}
	for _, m := range members {
		d.members[m.ID] = cloneActor(m)
	}
	return d
}

// Join adds or replaces a member.
func (d *Directory) Join(m roster.Actor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[m.ID] = cloneActor(m)
}

func (d *Directory) Member(_ context.Context, userID string) (roster.Actor, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	m, ok := d.members[userID]
	if !ok {
		return roster.Actor{}, false, nil
	}
	return cloneActor(m), true, nil
}

func (d *Directory) MembersWithRole(_ context.Context, roleID string) ([]roster.Actor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []roster.Actor
	for _, m := range d.members {
		if m.HasRole(roleID) {
			out = append(out, cloneActor(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *Directory) GrantRoles(_ context.Context, userID string, roleIDs ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.members[userID]
	if !ok {
		return errUnknownMember(userID)
	}
	for _, r := range roleIDs {
		if r != "" {
			m.Roles[r] = struct{}{}
		}
	}
	return nil
}

func (d *Directory) RevokeRoles(_ context.Context, userID string, roleIDs ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.members[userID]
	if !ok {
		return errUnknownMember(userID)
	}
	for _, r := range roleIDs {
		delete(m.Roles, r)
	}
	return nil
}

// RoleIDs returns a member's roles sorted, or nil when unknown.
func (d *Directory) RoleIDs(userID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	m, ok := d.members[userID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(m.Roles))
	for r := range m.Roles {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func cloneActor(a roster.Actor) roster.Actor {
	roles := make(map[string]struct{}, len(a.Roles))
	for r := range a.Roles {
		roles[r] = struct{}{}
	}
	a.Roles = roles
	return a
}
