package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

// RegisterTeamInput is the payload of the /añadir_equipo action.
type RegisterTeamInput struct {
	RoleID  string
	Name    string
	LogoURL string
}

type TeamSummary struct {
	Team       team.Team
	RosterSize int
}

type TeamDetails struct {
	Team   team.Team
	Roster RosterView
}

type TeamService struct {
	teamRepo     team.Repository
	settingsRepo settings.Repository
	authority    *RosterAuthority
	logger       *logging.Logger
	now          func() time.Time
}

func NewTeamService(
	teamRepo team.Repository,
	settingsRepo settings.Repository,
	authority *RosterAuthority,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo:     teamRepo,
		settingsRepo: settingsRepo,
		authority:    authority,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *TeamService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (out team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RegisterTeam")
	defer func() { endSpan(span, err) }()

	t := team.Team{
		RoleID:    strings.TrimSpace(input.RoleID),
		Name:      strings.TrimSpace(input.Name),
		LogoURL:   strings.TrimSpace(input.LogoURL),
		CreatedAt: s.now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len([]rune(t.Name)) > 64 {
		return team.Team{}, fmt.Errorf("%w: team name must be at most 64 characters", ErrInvalidInput)
	}
	if !isHTTPURL(t.LogoURL) {
		return team.Team{}, fmt.Errorf("%w: team logo must be an http(s) url", ErrInvalidInput)
	}

	if _, exists, err := s.teamRepo.GetByRoleID(ctx, t.RoleID); err != nil {
		return team.Team{}, persistenceErr("get team by role", err)
	} else if exists {
		return team.Team{}, fmt.Errorf("%w: role %s", ErrDuplicateRegistration, t.RoleID)
	}

	created, err := s.teamRepo.Create(ctx, t)
	if errors.Is(err, team.ErrDuplicateRole) {
		return team.Team{}, fmt.Errorf("%w: role %s", ErrDuplicateRegistration, t.RoleID)
	}
	if err != nil {
		return team.Team{}, persistenceErr("create team", err)
	}

	s.logger.InfoContext(ctx, "team registered", "team_id", created.ID, "role_id", created.RoleID, "name", created.Name)
	return created, nil
}

// ListTeams returns every registered team with its live roster size.
func (s *TeamService) ListTeams(ctx context.Context) (out []TeamSummary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer func() { endSpan(span, err) }()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, persistenceErr("list teams", err)
	}

	return iter.MapErr(teams, func(t *team.Team) (TeamSummary, error) {
		size, err := s.authority.CountRosterSize(ctx, t.RoleID)
		if err != nil {
			return TeamSummary{}, err
		}
		return TeamSummary{Team: *t, RosterSize: size}, nil
	})
}

// MyTeam shows the roster of the team managed by managerID.
func (s *TeamService) MyTeam(ctx context.Context, managerID string) (out TeamDetails, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.MyTeam")
	defer func() { endSpan(span, err) }()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return TeamDetails{}, fmt.Errorf("%w: manager id is required", ErrInvalidInput)
	}

	cfg, err := loadConfigured(ctx, s.settingsRepo)
	if err != nil {
		return TeamDetails{}, err
	}
	manager, err := s.authority.Member(ctx, managerID)
	if err != nil {
		return TeamDetails{}, err
	}
	if !manager.IsManager(cfg) {
		return TeamDetails{}, ErrNotManager
	}
	t, err := s.authority.ManagedTeam(ctx, manager)
	if err != nil {
		return TeamDetails{}, err
	}

	view, err := s.authority.Roster(ctx, t.RoleID, cfg)
	if err != nil {
		return TeamDetails{}, err
	}
	return TeamDetails{Team: t, Roster: view}, nil
}

func (s *TeamService) TeamInfo(ctx context.Context, teamRoleID string) (out TeamDetails, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.TeamInfo")
	defer func() { endSpan(span, err) }()

	teamRoleID = strings.TrimSpace(teamRoleID)
	if teamRoleID == "" {
		return TeamDetails{}, fmt.Errorf("%w: team role id is required", ErrInvalidInput)
	}

	t, ok, err := s.teamRepo.GetByRoleID(ctx, teamRoleID)
	if err != nil {
		return TeamDetails{}, persistenceErr("get team by role", err)
	}
	if !ok {
		return TeamDetails{}, fmt.Errorf("%w: team role %s", ErrNotFound, teamRoleID)
	}

	cfg, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return TeamDetails{}, persistenceErr("load settings", err)
	}
	view, err := s.authority.Roster(ctx, t.RoleID, cfg)
	if err != nil {
		return TeamDetails{}, err
	}
	return TeamDetails{Team: t, Roster: view}, nil
}
