package usecase

import (
	"context"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
)

// QueryService backs the public read API. It is wired with cached
// repositories and never takes part in a transfer decision.
type QueryService struct {
	teamRepo  team.Repository
	offerRepo transfer.Repository
	history   *HistoryService
}

func NewQueryService(teamRepo team.Repository, offerRepo transfer.Repository, historyRepo history.Repository) *QueryService {
	return &QueryService{
		teamRepo:  teamRepo,
		offerRepo: offerRepo,
		history:   NewHistoryService(historyRepo),
	}
}

func (s *QueryService) Teams(ctx context.Context) (out []team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.Teams")
	defer func() { endSpan(span, err) }()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, persistenceErr("list teams", err)
	}
	return teams, nil
}

// TeamRoster lists the accepted offers of one team.
func (s *QueryService) TeamRoster(ctx context.Context, teamRoleID string) (out []transfer.Offer, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.TeamRoster")
	defer func() { endSpan(span, err) }()

	offers, err := s.offerRepo.List(ctx, transfer.Filter{TeamRoleID: teamRoleID, Status: transfer.StatusAccepted})
	if err != nil {
		return nil, persistenceErr("list team roster", err)
	}
	return offers, nil
}

func (s *QueryService) Offers(ctx context.Context, filter transfer.Filter) (out []transfer.Offer, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.Offers")
	defer func() { endSpan(span, err) }()

	offers, err := s.offerRepo.List(ctx, filter)
	if err != nil {
		return nil, persistenceErr("list offers", err)
	}
	return offers, nil
}

func (s *QueryService) RecentHistory(ctx context.Context) ([]history.Entry, error) {
	return s.history.Recent(ctx, history.MaxRecent)
}
