package roster

import (
	"context"

	"github.com/riskibarqy/haxball-league/internal/domain/settings"
)

// Capacity is the maximum number of members holding a team role.
const Capacity = 15

// Actor is a guild member and the role ids it holds.
type Actor struct {
	ID        string
	Name      string
	AvatarURL string
	Roles     map[string]struct{}
}

func NewActor(id, name string, roleIDs ...string) Actor {
	roles := make(map[string]struct{}, len(roleIDs))
	for _, r := range roleIDs {
		if r != "" {
			roles[r] = struct{}{}
		}
	}
	return Actor{ID: id, Name: name, Roles: roles}
}

func (a Actor) HasRole(roleID string) bool {
	if roleID == "" {
		return false
	}
	_, ok := a.Roles[roleID]
	return ok
}

func (a Actor) IsManager(s settings.Settings) bool {
	return a.HasRole(s.ManagerRoleID)
}

func (a Actor) IsFreeAgent(s settings.Settings) bool {
	return a.HasRole(s.FreeAgentRoleID)
}

// Directory is the chat platform's view of guild membership. Granting a role
// already held, or revoking one not held, is a no-op.
type Directory interface {
	Member(ctx context.Context, userID string) (Actor, bool, error)
	MembersWithRole(ctx context.Context, roleID string) ([]Actor, error)
	GrantRoles(ctx context.Context, userID string, roleIDs ...string) error
	RevokeRoles(ctx context.Context, userID string, roleIDs ...string) error
}
