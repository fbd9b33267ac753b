package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/haxball-league/internal/domain/roster"
	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
)

// RosterView splits the members holding a team role into its managers and
// its players. Size counts both, matching how capacity is enforced.
type RosterView struct {
	TeamRoleID string
	Managers   []roster.Actor
	Players    []roster.Actor
	Size       int
}

// RosterAuthority answers membership questions from live guild state. It
// never reads the offer table: a roster is whoever holds the team role.
type RosterAuthority struct {
	directory roster.Directory
	teamRepo  team.Repository
}

func NewRosterAuthority(directory roster.Directory, teamRepo team.Repository) *RosterAuthority {
	return &RosterAuthority{
		directory: directory,
		teamRepo:  teamRepo,
	}
}

func (a *RosterAuthority) CountRosterSize(ctx context.Context, teamRoleID string) (int, error) {
	members, err := a.directory.MembersWithRole(ctx, teamRoleID)
	if err != nil {
		return 0, directoryErr("count roster "+teamRoleID, err)
	}
	return len(members), nil
}

// EnsureRoom returns the current size, or ErrCapacityExceeded when full.
func (a *RosterAuthority) EnsureRoom(ctx context.Context, teamRoleID string) (int, error) {
	size, err := a.CountRosterSize(ctx, teamRoleID)
	if err != nil {
		return 0, err
	}
	if size >= roster.Capacity {
		return size, fmt.Errorf("%w: %d/%d", ErrCapacityExceeded, size, roster.Capacity)
	}
	return size, nil
}

// ManagedTeam resolves the single registered team whose role the actor holds.
// Holding several team roles is a configuration error, not something to
// tie-break.
func (a *RosterAuthority) ManagedTeam(ctx context.Context, actor roster.Actor) (team.Team, error) {
	matches, err := a.TeamsHeld(ctx, actor)
	if err != nil {
		return team.Team{}, err
	}

	switch len(matches) {
	case 0:
		return team.Team{}, ErrNoTeamAssigned
	case 1:
		return matches[0], nil
	default:
		return team.Team{}, fmt.Errorf("%w: %s holds %d team roles", ErrManagerTeamAmbiguous, actor.ID, len(matches))
	}
}

// TeamsHeld lists the registered teams whose role the actor holds.
func (a *RosterAuthority) TeamsHeld(ctx context.Context, actor roster.Actor) ([]team.Team, error) {
	teams, err := a.teamRepo.List(ctx)
	if err != nil {
		return nil, persistenceErr("list teams", err)
	}

	var held []team.Team
	for _, t := range teams {
		if actor.HasRole(t.RoleID) {
			held = append(held, t)
		}
	}
	return held, nil
}

// Member loads one guild member, mapping absence to ErrNotFound.
func (a *RosterAuthority) Member(ctx context.Context, userID string) (roster.Actor, error) {
	actor, ok, err := a.directory.Member(ctx, userID)
	if err != nil {
		return roster.Actor{}, directoryErr("get member "+userID, err)
	}
	if !ok {
		return roster.Actor{}, fmt.Errorf("%w: member %s", ErrNotFound, userID)
	}
	return actor, nil
}

func (a *RosterAuthority) Roster(ctx context.Context, teamRoleID string, cfg settings.Settings) (RosterView, error) {
	members, err := a.directory.MembersWithRole(ctx, teamRoleID)
	if err != nil {
		return RosterView{}, directoryErr("list roster "+teamRoleID, err)
	}

	view := RosterView{TeamRoleID: teamRoleID, Size: len(members)}
	for _, m := range members {
		if m.IsManager(cfg) {
			view.Managers = append(view.Managers, m)
			continue
		}
		view.Players = append(view.Players, m)
	}
	sort.Slice(view.Players, func(i, j int) bool { return view.Players[i].Name < view.Players[j].Name })
	return view, nil
}
