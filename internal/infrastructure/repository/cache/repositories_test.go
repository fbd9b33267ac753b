package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/haxball-league/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTeams struct {
	team.Repository
	lists int
}

func (c *countingTeams) List(ctx context.Context) ([]team.Team, error) {
	c.lists++
	return c.Repository.List(ctx)
}

func TestTeamRepository_ListCachedUntilWrite(t *testing.T) {
	t.Parallel()

	next := &countingTeams{Repository: memory.NewTeamRepository()}
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))

	_, err := repo.Create(t.Context(), team.Team{RoleID: "r1", Name: "Boca", LogoURL: "https://x/b.png"})
	require.NoError(t, err)

	for range 3 {
		items, err := repo.List(t.Context())
		require.NoError(t, err)
		require.Len(t, items, 1)
	}
	assert.Equal(t, 1, next.lists)

	_, err = repo.Create(t.Context(), team.Team{RoleID: "r2", Name: "River", LogoURL: "https://x/r.png"})
	require.NoError(t, err)

	items, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, next.lists)
}

func TestTransferRepository_AcceptInvalidatesListings(t *testing.T) {
	t.Parallel()

	ledger := memory.NewHistoryRepository()
	store := basecache.NewStore(time.Minute)
	offers := NewTransferRepository(memory.NewTransferRepository(ledger), store)
	entries := NewHistoryRepository(ledger, store)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	created, err := offers.Create(t.Context(), transfer.Offer{
		PlayerID: "p1", TeamRoleID: "r1", TeamName: "Boca", Position: "DEL",
		ManagerID: "m1", Status: transfer.StatusPending, CreatedAt: now,
	})
	require.NoError(t, err)

	accepted, err := offers.List(t.Context(), transfer.Filter{Status: transfer.StatusAccepted})
	require.NoError(t, err)
	assert.Empty(t, accepted)
	recent, err := entries.ListRecent(t.Context(), 0)
	require.NoError(t, err)
	assert.Empty(t, recent)

	ok, err := offers.Accept(t.Context(), created.ID, now, history.Entry{
		Kind: history.KindSigning, PlayerID: "p1", TeamName: "Boca", OccurredAt: now,
	})
	require.NoError(t, err)
	require.True(t, ok)

	accepted, err = offers.List(t.Context(), transfer.Filter{Status: transfer.StatusAccepted})
	require.NoError(t, err)
	assert.Len(t, accepted, 1)
	recent, err = entries.ListRecent(t.Context(), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestWriters_InvalidateReadersSharingTheStore(t *testing.T) {
	t.Parallel()

	store := basecache.NewStore(time.Hour)
	next := &countingTeams{Repository: memory.NewTeamRepository()}
	reader := NewTeamRepository(next, store)
	writer := NewTeamWriter(next, store)

	items, err := reader.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = writer.Create(t.Context(), team.Team{RoleID: "r1", Name: "Boca", LogoURL: "https://x/b.png"})
	require.NoError(t, err)

	// Command paths always read the store.
	for range 2 {
		items, err = writer.List(t.Context())
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
	assert.Equal(t, 3, next.lists)

	items, err = reader.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, items, 1, "a write through the writer must not wait for the TTL")
	assert.Equal(t, 4, next.lists)

	ledger := memory.NewHistoryRepository()
	entries := NewHistoryRepository(ledger, store)
	offers := NewTransferWriter(memory.NewTransferRepository(ledger), store)
	recent, err := entries.ListRecent(t.Context(), 0)
	require.NoError(t, err)
	assert.Empty(t, recent)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created, err := offers.Create(t.Context(), transfer.Offer{
		PlayerID: "p1", TeamRoleID: "r1", TeamName: "Boca", Position: "DEL",
		ManagerID: "m1", Status: transfer.StatusPending, CreatedAt: now,
	})
	require.NoError(t, err)
	ok, err := offers.Accept(t.Context(), created.ID, now, history.Entry{Kind: history.KindSigning, PlayerID: "p1", TeamName: "Boca", OccurredAt: now})
	require.NoError(t, err)
	require.True(t, ok)

	recent, err = entries.ListRecent(t.Context(), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
