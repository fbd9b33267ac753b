package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/infrastructure/repository/memory"
	historymock "github.com/riskibarqy/haxball-league/internal/mocks/domain/history"
	teammock "github.com/riskibarqy/haxball-league/internal/mocks/domain/team"
)

func TestQueryService_TeamRosterListsAcceptedOnly(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	historyRepo := memory.NewHistoryRepository()
	offerRepo := memory.NewTransferRepository(historyRepo)
	for _, pid := range []string{"10", "11"} {
		_, err := offerRepo.Create(ctx, transfer.Offer{PlayerID: pid, TeamRoleID: teamRole, ManagerID: managerID, Position: "DC", Status: transfer.StatusPending, CreatedAt: fixedNow})
		require.NoError(t, err)
	}
	accepted, err := offerRepo.Accept(ctx, 1, fixedNow, history.Entry{Kind: history.KindSigning, PlayerID: "10", TeamName: "Halcones", OccurredAt: fixedNow})
	require.NoError(t, err)
	require.True(t, accepted)

	svc := NewQueryService(memory.NewTeamRepository(), offerRepo, historyRepo)

	rosterOffers, err := svc.TeamRoster(ctx, teamRole)
	require.NoError(t, err)
	require.Len(t, rosterOffers, 1)
	assert.Equal(t, "10", rosterOffers[0].PlayerID)

	pending, err := svc.Offers(ctx, transfer.Filter{Status: transfer.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "11", pending[0].PlayerID)

	entries, err := svc.RecentHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestQueryService_StoreFailuresUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	teamRepo := teammock.NewRepository(t)
	teamRepo.On("List", mock.Anything).Return([]team.Team(nil), errors.New("timeout")).Once()
	historyRepo := historymock.NewRepository(t)
	historyRepo.On("ListRecent", mock.Anything, history.MaxRecent).Return([]history.Entry(nil), errors.New("timeout")).Once()

	svc := NewQueryService(teamRepo, memory.NewTransferRepository(memory.NewHistoryRepository()), historyRepo)

	if _, err := svc.Teams(ctx); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence from Teams, got %v", err)
	}
	if _, err := svc.RecentHistory(ctx); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence from RecentHistory, got %v", err)
	}
}
