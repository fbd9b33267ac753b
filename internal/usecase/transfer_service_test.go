package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/roster"
	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

const (
	freeAgentRole = "100"
	playerRole    = "101"
	managerRole   = "102"
	teamRole      = "300"
	otherTeamRole = "301"
	managerID     = "1"
	playerID      = "2"
)

var fixedNow = time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)

type recordingAnnouncer struct {
	mu       sync.Mutex
	offers   []transfer.Offer
	releases []history.Entry
	offerErr error
}

func (a *recordingAnnouncer) AnnounceOffer(_ context.Context, _ string, offer transfer.Offer, _ team.Team, _ int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.offerErr != nil {
		return a.offerErr
	}
	a.offers = append(a.offers, offer)
	return nil
}

func (a *recordingAnnouncer) AnnounceRelease(_ context.Context, _ string, entry history.Entry, _ team.Team) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releases = append(a.releases, entry)
	return nil
}

type transferEnv struct {
	service   *TransferService
	teams     *memory.TeamRepository
	offers    *memory.TransferRepository
	history   *memory.HistoryRepository
	directory *memory.Directory
	announcer *recordingAnnouncer
}

func leagueSettings() settings.Settings {
	return settings.Settings{
		FreeAgentRoleID:  freeAgentRole,
		PlayerRoleID:     playerRole,
		ManagerRoleID:    managerRole,
		OfferChannelID:   "500",
		WelcomeChannelID: "501",
	}
}

func newTransferEnv(t *testing.T, cfg settings.Settings, members ...roster.Actor) transferEnv {
	t.Helper()

	teamRepo := memory.NewTeamRepository()
	_, err := teamRepo.Create(t.Context(), team.Team{RoleID: teamRole, Name: "Los Halcones", LogoURL: "https://img.example/halcones.png", CreatedAt: fixedNow})
	require.NoError(t, err)

	historyRepo := memory.NewHistoryRepository()
	offerRepo := memory.NewTransferRepository(historyRepo)
	directory := memory.NewDirectory(members...)
	announcer := &recordingAnnouncer{}

	svc := NewTransferService(
		memory.NewSettingsRepository(cfg),
		teamRepo,
		offerRepo,
		NewRosterAuthority(directory, teamRepo),
		directory,
		announcer,
		logging.NewNop(),
	)
	svc.now = func() time.Time { return fixedNow }

	return transferEnv{
		service:   svc,
		teams:     teamRepo,
		offers:    offerRepo,
		history:   historyRepo,
		directory: directory,
		announcer: announcer,
	}
}

func defaultMembers() []roster.Actor {
	return []roster.Actor{
		roster.NewActor(managerID, "Capitán", managerRole, teamRole),
		roster.NewActor(playerID, "Pibe", freeAgentRole),
	}
}

func proposeDefault(t *testing.T, env transferEnv) ProposeResult {
	t.Helper()
	res, err := env.service.Propose(t.Context(), ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC", JerseyNumber: 9})
	require.NoError(t, err)
	return res
}

func TestTransferService_ProposeCreatesPendingOffer(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	res := proposeDefault(t, env)

	assert.Equal(t, transfer.StatusPending, res.Offer.Status)
	assert.Equal(t, teamRole, res.Offer.TeamRoleID)
	assert.Equal(t, "Pibe", res.Offer.PlayerName)
	assert.Equal(t, "Capitán", res.Offer.ManagerName)
	assert.Equal(t, 1, res.RosterSize)
	require.Len(t, env.announcer.offers, 1)
	assert.Equal(t, res.Offer.ID, env.announcer.offers[0].ID)
}

func TestTransferService_ProposeCheckOrder(t *testing.T) {
	t.Parallel()

	full := []roster.Actor{roster.NewActor(managerID, "Capitán", managerRole, teamRole), roster.NewActor(playerID, "Pibe", playerRole)}
	for i := 0; i < roster.Capacity-1; i++ {
		full = append(full, roster.NewActor(fmt.Sprintf("9%02d", i), "Relleno", playerRole, teamRole))
	}

	cases := []struct {
		name    string
		cfg     settings.Settings
		members []roster.Actor
		input   ProposeInput
		wantErr error
	}{
		{
			name:    "unconfigured",
			cfg:     settings.Settings{},
			members: defaultMembers(),
			input:   ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC"},
			wantErr: ErrConfigurationMissing,
		},
		{
			name:    "bad jersey",
			cfg:     leagueSettings(),
			members: defaultMembers(),
			input:   ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC", JerseyNumber: 120},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "not a manager",
			cfg:     leagueSettings(),
			members: []roster.Actor{roster.NewActor(managerID, "Capitán", teamRole), roster.NewActor(playerID, "Pibe", freeAgentRole)},
			input:   ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC"},
			wantErr: ErrNotManager,
		},
		{
			name:    "manager without team",
			cfg:     leagueSettings(),
			members: []roster.Actor{roster.NewActor(managerID, "Capitán", managerRole), roster.NewActor(playerID, "Pibe", freeAgentRole)},
			input:   ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC"},
			wantErr: ErrNoTeamAssigned,
		},
		{
			// capacity is checked before the player's status
			name:    "full roster",
			cfg:     leagueSettings(),
			members: full,
			input:   ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC"},
			wantErr: ErrCapacityExceeded,
		},
		{
			name:    "player not a free agent",
			cfg:     leagueSettings(),
			members: []roster.Actor{roster.NewActor(managerID, "Capitán", managerRole, teamRole), roster.NewActor(playerID, "Pibe", playerRole)},
			input:   ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC"},
			wantErr: ErrNotFreeAgent,
		},
		{
			name:    "player unknown",
			cfg:     leagueSettings(),
			members: []roster.Actor{roster.NewActor(managerID, "Capitán", managerRole, teamRole)},
			input:   ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC"},
			wantErr: ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTransferEnv(t, tc.cfg, tc.members...)
			_, err := env.service.Propose(t.Context(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			offers, listErr := env.offers.List(t.Context(), transfer.Filter{})
			require.NoError(t, listErr)
			assert.Empty(t, offers, "a refused proposal must leave no record")
			assert.Empty(t, env.announcer.offers)
		})
	}
}

func TestTransferService_ProposeAmbiguousManager(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(),
		roster.NewActor(managerID, "Capitán", managerRole, teamRole, otherTeamRole),
		roster.NewActor(playerID, "Pibe", freeAgentRole),
	)
	_, err := env.teams.Create(t.Context(), team.Team{RoleID: otherTeamRole, Name: "Otro", LogoURL: "https://img.example/otro.png"})
	require.NoError(t, err)

	_, err = env.service.Propose(t.Context(), ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC"})
	if !errors.Is(err, ErrManagerTeamAmbiguous) {
		t.Fatalf("expected ErrManagerTeamAmbiguous, got %v", err)
	}
}

func TestTransferService_ProposeDuplicatePending(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	proposeDefault(t, env)

	_, err := env.service.Propose(t.Context(), ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "MC", JerseyNumber: 8})
	if !errors.Is(err, ErrDuplicateOffer) {
		t.Fatalf("expected ErrDuplicateOffer, got %v", err)
	}
}

func TestTransferService_ProposeWithdrawsUnannouncedOffer(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	env.announcer.offerErr = errors.New("channel missing")

	_, err := env.service.Propose(t.Context(), ProposeInput{ManagerID: managerID, PlayerID: playerID, Position: "DC"})
	if !errors.Is(err, ErrAnnouncementFailed) {
		t.Fatalf("expected ErrAnnouncementFailed, got %v", err)
	}

	pending, listErr := env.offers.List(t.Context(), transfer.Filter{Status: transfer.StatusPending})
	require.NoError(t, listErr)
	assert.Empty(t, pending)

	// the withdrawn offer no longer blocks a retry
	env.announcer.offerErr = nil
	proposeDefault(t, env)
}

func TestTransferService_AcceptSignsPlayer(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	proposed := proposeDefault(t, env)

	res, err := env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: proposed.Offer.ID, Decision: DecisionAccept})
	require.NoError(t, err)

	assert.Equal(t, OutcomeAccepted, res.Outcome)
	assert.Equal(t, transfer.StatusAccepted, res.Offer.Status)
	require.NotNil(t, res.Offer.ResolvedAt)
	assert.Equal(t, 2, res.RosterSize)
	assert.Equal(t, []string{playerRole, teamRole}, env.directory.RoleIDs(playerID))

	entries, err := env.history.ListRecent(t.Context(), history.MaxRecent)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.KindSigning, entries[0].Kind)
	assert.Equal(t, "DC", entries[0].Position)
	assert.Equal(t, 9, entries[0].JerseyNumber)
	assert.Equal(t, "Los Halcones", entries[0].TeamName)

	_, err = env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: proposed.Offer.ID, Decision: DecisionAccept})
	if !errors.Is(err, ErrOfferResolved) {
		t.Fatalf("expected ErrOfferResolved on second answer, got %v", err)
	}
}

func TestTransferService_RejectKeepsFreeAgent(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	proposed := proposeDefault(t, env)

	res, err := env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: proposed.Offer.ID, Decision: DecisionReject})
	require.NoError(t, err)

	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, []string{freeAgentRole}, env.directory.RoleIDs(playerID))

	entries, err := env.history.ListRecent(t.Context(), history.MaxRecent)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: proposed.Offer.ID, Decision: DecisionReject})
	if !errors.Is(err, ErrOfferResolved) {
		t.Fatalf("expected ErrOfferResolved, got %v", err)
	}
}

func TestTransferService_RespondOnlyByNamedPlayer(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	proposed := proposeDefault(t, env)

	_, err := env.service.Respond(t.Context(), RespondInput{ActorID: managerID, OfferID: proposed.Offer.ID, Decision: DecisionAccept})
	if !errors.Is(err, ErrNotOfferRecipient) {
		t.Fatalf("expected ErrNotOfferRecipient, got %v", err)
	}

	offer, ok, err := env.offers.GetByID(t.Context(), proposed.Offer.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, transfer.StatusPending, offer.Status)
}

func TestTransferService_RespondUnknownOffer(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	_, err := env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: 404, Decision: DecisionAccept})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: 1, Decision: "maybe"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTransferService_ConcurrentAcceptsRespectCapacity(t *testing.T) {
	t.Parallel()

	members := []roster.Actor{roster.NewActor(managerID, "Capitán", managerRole, teamRole)}
	for i := 0; i < roster.Capacity-2; i++ {
		members = append(members, roster.NewActor(fmt.Sprintf("9%02d", i), "Titular", playerRole, teamRole))
	}
	members = append(members,
		roster.NewActor("21", "Primero", freeAgentRole),
		roster.NewActor("22", "Segundo", freeAgentRole),
	)
	env := newTransferEnv(t, leagueSettings(), members...)

	var offerIDs []int64
	for _, pid := range []string{"21", "22"} {
		res, err := env.service.Propose(t.Context(), ProposeInput{ManagerID: managerID, PlayerID: pid, Position: "DFC", JerseyNumber: 4})
		require.NoError(t, err)
		assert.Equal(t, roster.Capacity-1, res.RosterSize)
		offerIDs = append(offerIDs, res.Offer.ID)
	}

	outcomes := make([]Outcome, len(offerIDs))
	var wg conc.WaitGroup
	for i, id := range offerIDs {
		actor := []string{"21", "22"}[i]
		wg.Go(func() {
			res, err := env.service.Respond(context.Background(), RespondInput{ActorID: actor, OfferID: id, Decision: DecisionAccept})
			if err != nil {
				t.Errorf("respond %d: %v", id, err)
				return
			}
			outcomes[i] = res.Outcome
		})
	}
	wg.Wait()

	assert.ElementsMatch(t, []Outcome{OutcomeAccepted, OutcomeTeamFull}, outcomes)

	holders, err := env.directory.MembersWithRole(t.Context(), teamRole)
	require.NoError(t, err)
	assert.Len(t, holders, roster.Capacity)

	accepted, err := env.offers.List(t.Context(), transfer.Filter{Status: transfer.StatusAccepted})
	require.NoError(t, err)
	assert.Len(t, accepted, 1)
	entries, err := env.history.ListRecent(t.Context(), history.MaxRecent)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTransferService_AcceptCountsLiveRosterNotOfferRows(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)

	// A full team's worth of accepted rows for players who have since left
	// the guild or lost the role by hand.
	for i := range roster.Capacity {
		gone := fmt.Sprintf("8%02d", i)
		o, err := env.offers.Create(t.Context(), transfer.Offer{PlayerID: gone, TeamRoleID: teamRole, ManagerID: managerID, Position: "DC", Status: transfer.StatusPending, CreatedAt: fixedNow})
		require.NoError(t, err)
		ok, err := env.offers.Accept(t.Context(), o.ID, fixedNow, history.Entry{Kind: history.KindSigning, PlayerID: gone, TeamName: "Los Halcones", OccurredAt: fixedNow})
		require.NoError(t, err)
		require.True(t, ok)
	}

	proposed := proposeDefault(t, env)
	assert.Equal(t, 1, proposed.RosterSize)

	res, err := env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: proposed.Offer.ID, Decision: DecisionAccept})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	assert.Equal(t, 2, res.RosterSize)
	assert.Equal(t, []string{playerRole, teamRole}, env.directory.RoleIDs(playerID))
}

func newTwoTeamEnv(t *testing.T) transferEnv {
	t.Helper()

	env := newTransferEnv(t, leagueSettings(),
		roster.NewActor(managerID, "Capitán", managerRole, teamRole),
		roster.NewActor("3", "Otro DT", managerRole, otherTeamRole),
		roster.NewActor(playerID, "Pibe", freeAgentRole),
	)
	_, err := env.teams.Create(t.Context(), team.Team{RoleID: otherTeamRole, Name: "Los Toros", LogoURL: "https://img.example/toros.png", CreatedAt: fixedNow})
	require.NoError(t, err)
	return env
}

func TestTransferService_PlayerSignsForOneTeamOnly(t *testing.T) {
	t.Parallel()

	env := newTwoTeamEnv(t)
	first := proposeDefault(t, env)
	second, err := env.service.Propose(t.Context(), ProposeInput{ManagerID: "3", PlayerID: playerID, Position: "MC", JerseyNumber: 10})
	require.NoError(t, err)

	res, err := env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: first.Offer.ID, Decision: DecisionAccept})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Outcome)

	_, err = env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: second.Offer.ID, Decision: DecisionAccept})
	if !errors.Is(err, ErrOfferResolved) {
		t.Fatalf("expected ErrOfferResolved for the competing offer, got %v", err)
	}

	assert.Equal(t, []string{playerRole, teamRole}, env.directory.RoleIDs(playerID))
	rival, ok, err := env.offers.GetByID(t.Context(), second.Offer.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, transfer.StatusRejected, rival.Status)

	entries, err := env.history.ListRecent(t.Context(), history.MaxRecent)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTransferService_AcceptAfterLosingFreeAgentStatus(t *testing.T) {
	t.Parallel()

	env := newTwoTeamEnv(t)
	offered, err := env.service.Propose(t.Context(), ProposeInput{ManagerID: "3", PlayerID: playerID, Position: "MC"})
	require.NoError(t, err)

	// An admin moves the player onto the other team by hand.
	require.NoError(t, env.directory.GrantRoles(t.Context(), playerID, playerRole, teamRole))
	require.NoError(t, env.directory.RevokeRoles(t.Context(), playerID, freeAgentRole))

	res, err := env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: offered.Offer.ID, Decision: DecisionAccept})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadySigned, res.Outcome)
	assert.Equal(t, transfer.StatusRejected, res.Offer.Status)
	assert.Equal(t, []string{playerRole, teamRole}, env.directory.RoleIDs(playerID))

	entries, err := env.history.ListRecent(t.Context(), history.MaxRecent)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransferService_ConcurrentAcceptsAcrossTeams(t *testing.T) {
	t.Parallel()

	env := newTwoTeamEnv(t)
	first := proposeDefault(t, env)
	second, err := env.service.Propose(t.Context(), ProposeInput{ManagerID: "3", PlayerID: playerID, Position: "MC"})
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		accepted int
	)
	var wg conc.WaitGroup
	for _, id := range []int64{first.Offer.ID, second.Offer.ID} {
		wg.Go(func() {
			res, err := env.service.Respond(context.Background(), RespondInput{ActorID: playerID, OfferID: id, Decision: DecisionAccept})
			if err != nil && !errors.Is(err, ErrOfferResolved) {
				t.Errorf("respond %d: %v", id, err)
				return
			}
			if err == nil && res.Outcome == OutcomeAccepted {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	roles := env.directory.RoleIDs(playerID)
	held := 0
	for _, r := range roles {
		if r == teamRole || r == otherTeamRole {
			held++
		}
	}
	assert.Equal(t, 1, held, "roles: %v", roles)
}

func TestTransferService_ReleaseRoundTrip(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	proposed := proposeDefault(t, env)
	_, err := env.service.Respond(t.Context(), RespondInput{ActorID: playerID, OfferID: proposed.Offer.ID, Decision: DecisionAccept})
	require.NoError(t, err)

	res, err := env.service.Release(t.Context(), ReleaseInput{ManagerID: managerID, PlayerID: playerID})
	require.NoError(t, err)

	assert.Equal(t, history.KindRelease, res.Entry.Kind)
	assert.Equal(t, history.DefaultReleaseReason, res.Entry.Reason)
	assert.Equal(t, "DC", res.Entry.Position)
	assert.Equal(t, 9, res.Entry.JerseyNumber)
	assert.Equal(t, int64(1), res.RemovedOffers)
	assert.Equal(t, []string{freeAgentRole}, env.directory.RoleIDs(playerID))
	require.Len(t, env.announcer.releases, 1)

	left, err := env.offers.List(t.Context(), transfer.Filter{})
	require.NoError(t, err)
	assert.Empty(t, left)

	entries, err := env.history.ListRecent(t.Context(), history.MaxRecent)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, history.KindRelease, entries[0].Kind)
	assert.Equal(t, history.KindSigning, entries[1].Kind)

	// the released player can be signed again
	again := proposeDefault(t, env)
	assert.Equal(t, transfer.StatusPending, again.Offer.Status)
}

func TestTransferService_ReleaseRequiresTeamMember(t *testing.T) {
	t.Parallel()

	env := newTransferEnv(t, leagueSettings(), defaultMembers()...)
	_, err := env.service.Release(t.Context(), ReleaseInput{ManagerID: managerID, PlayerID: playerID, Reason: "bajo rendimiento"})
	if !errors.Is(err, ErrPlayerNotOnTeam) {
		t.Fatalf("expected ErrPlayerNotOnTeam, got %v", err)
	}

	_, err = env.service.Release(t.Context(), ReleaseInput{ManagerID: playerID, PlayerID: managerID})
	if !errors.Is(err, ErrNotManager) {
		t.Fatalf("expected ErrNotManager, got %v", err)
	}
}
