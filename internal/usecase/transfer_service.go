package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/roster"
	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
	"github.com/riskibarqy/haxball-league/internal/platform/resilience"
)

const maxPositionLength = 32

// OfferAnnouncer publishes transfer events to the league's offer channel.
type OfferAnnouncer interface {
	AnnounceOffer(ctx context.Context, channelID string, offer transfer.Offer, t team.Team, rosterSize int) error
	AnnounceRelease(ctx context.Context, channelID string, entry history.Entry, t team.Team) error
}

type ProposeInput struct {
	ManagerID    string
	PlayerID     string
	Position     string
	JerseyNumber int
}

type ProposeResult struct {
	Offer      transfer.Offer
	Team       team.Team
	RosterSize int
}

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

type RespondInput struct {
	ActorID  string
	OfferID  int64
	Decision Decision
}

type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	// OutcomeTeamFull means the player accepted but the roster filled up in
	// the meantime; the offer was rejected instead.
	OutcomeTeamFull Outcome = "team_full"
	// OutcomeAlreadySigned means the player stopped being a free agent after
	// the offer was made; the offer was rejected instead.
	OutcomeAlreadySigned Outcome = "already_signed"
)

type RespondResult struct {
	Offer      transfer.Offer
	Team       team.Team
	Outcome    Outcome
	RosterSize int
}

type ReleaseInput struct {
	ManagerID string
	PlayerID  string
	Reason    string
}

type ReleaseResult struct {
	Team          team.Team
	Entry         history.Entry
	RemovedOffers int64
}

// TransferService runs the offer state machine. Persisted state is always
// written before guild roles change; a role failure after a successful write
// is returned as ErrMembershipSync together with the populated result.
type TransferService struct {
	settingsRepo settings.Repository
	teamRepo     team.Repository
	offerRepo    transfer.Repository
	authority    *RosterAuthority
	directory    roster.Directory
	announcer    OfferAnnouncer
	teamLocks    resilience.KeyedMutex
	playerLocks  resilience.KeyedMutex
	logger       *logging.Logger
	now          func() time.Time
}

func NewTransferService(
	settingsRepo settings.Repository,
	teamRepo team.Repository,
	offerRepo transfer.Repository,
	authority *RosterAuthority,
	directory roster.Directory,
	announcer OfferAnnouncer,
	logger *logging.Logger,
) *TransferService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TransferService{
		settingsRepo: settingsRepo,
		teamRepo:     teamRepo,
		offerRepo:    offerRepo,
		authority:    authority,
		directory:    directory,
		announcer:    announcer,
		logger:       logger,
		now:          time.Now,
	}
}

// Propose creates a pending offer. Checks run in a fixed order and the first
// failure aborts without side effects.
func (s *TransferService) Propose(ctx context.Context, input ProposeInput) (out ProposeResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Propose")
	defer func() { endSpan(span, err) }()

	input.ManagerID = strings.TrimSpace(input.ManagerID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.Position = strings.TrimSpace(input.Position)
	if input.ManagerID == "" {
		return ProposeResult{}, fmt.Errorf("%w: manager id is required", ErrInvalidInput)
	}
	if input.PlayerID == "" {
		return ProposeResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.Position == "" || len([]rune(input.Position)) > maxPositionLength {
		return ProposeResult{}, fmt.Errorf("%w: position must be 1-%d characters", ErrInvalidInput, maxPositionLength)
	}
	if input.JerseyNumber < 0 || input.JerseyNumber > 99 {
		return ProposeResult{}, fmt.Errorf("%w: jersey number must be between 0 and 99", ErrInvalidInput)
	}

	cfg, err := loadConfigured(ctx, s.settingsRepo)
	if err != nil {
		return ProposeResult{}, err
	}

	manager, err := s.authority.Member(ctx, input.ManagerID)
	if err != nil {
		return ProposeResult{}, err
	}
	if !manager.IsManager(cfg) {
		return ProposeResult{}, ErrNotManager
	}

	t, err := s.authority.ManagedTeam(ctx, manager)
	if err != nil {
		return ProposeResult{}, err
	}

	size, err := s.authority.EnsureRoom(ctx, t.RoleID)
	if err != nil {
		return ProposeResult{}, err
	}

	player, err := s.authority.Member(ctx, input.PlayerID)
	if err != nil {
		return ProposeResult{}, err
	}
	if !player.IsFreeAgent(cfg) {
		return ProposeResult{}, ErrNotFreeAgent
	}

	offer, err := s.offerRepo.Create(ctx, transfer.Offer{
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		TeamRoleID:   t.RoleID,
		TeamName:     t.Name,
		Position:     input.Position,
		JerseyNumber: input.JerseyNumber,
		ManagerID:    manager.ID,
		ManagerName:  manager.Name,
		Status:       transfer.StatusPending,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, transfer.ErrDuplicatePending) {
		return ProposeResult{}, fmt.Errorf("%w: player %s, team %s", ErrDuplicateOffer, player.ID, t.RoleID)
	}
	if err != nil {
		return ProposeResult{}, persistenceErr("create offer", err)
	}

	if err := s.announcer.AnnounceOffer(ctx, cfg.OfferChannelID, offer, t, size); err != nil {
		// Nobody can answer an offer that was never shown, so withdraw it.
		if _, withdrawErr := s.offerRepo.Resolve(ctx, offer.ID, transfer.StatusRejected, s.now().UTC()); withdrawErr != nil {
			s.logger.ErrorContext(ctx, "withdraw unannounced offer failed", "offer_id", offer.ID, "error", withdrawErr)
		}
		return ProposeResult{}, fmt.Errorf("%w: offer %d: %w", ErrAnnouncementFailed, offer.ID, err)
	}

	s.logger.InfoContext(ctx, "offer proposed",
		"offer_id", offer.ID,
		"player_id", offer.PlayerID,
		"team_role_id", offer.TeamRoleID,
		"manager_id", offer.ManagerID,
		"roster_size", size,
	)
	return ProposeResult{Offer: offer, Team: t, RosterSize: size}, nil
}

// Respond applies the named player's decision to a pending offer.
func (s *TransferService) Respond(ctx context.Context, input RespondInput) (out RespondResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Respond")
	defer func() { endSpan(span, err) }()

	input.ActorID = strings.TrimSpace(input.ActorID)
	if input.ActorID == "" {
		return RespondResult{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}
	if input.OfferID <= 0 {
		return RespondResult{}, fmt.Errorf("%w: offer id is required", ErrInvalidInput)
	}
	if input.Decision != DecisionAccept && input.Decision != DecisionReject {
		return RespondResult{}, fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, input.Decision)
	}

	cfg, err := loadConfigured(ctx, s.settingsRepo)
	if err != nil {
		return RespondResult{}, err
	}

	offer, err := s.getOffer(ctx, input.OfferID)
	if err != nil {
		return RespondResult{}, err
	}
	if offer.PlayerID != input.ActorID {
		return RespondResult{}, ErrNotOfferRecipient
	}
	if offer.Status != transfer.StatusPending {
		return RespondResult{}, fmt.Errorf("%w: offer %d is %s", ErrOfferResolved, offer.ID, offer.Status)
	}

	t, ok, err := s.teamRepo.GetByRoleID(ctx, offer.TeamRoleID)
	if err != nil {
		return RespondResult{}, persistenceErr("get team by role", err)
	}
	if !ok {
		return RespondResult{}, fmt.Errorf("%w: team role %s", ErrNotFound, offer.TeamRoleID)
	}

	if input.Decision == DecisionReject {
		return s.reject(ctx, cfg, offer, t)
	}
	return s.accept(ctx, cfg, offer, t)
}

func (s *TransferService) accept(ctx context.Context, cfg settings.Settings, offer transfer.Offer, t team.Team) (RespondResult, error) {
	// Count, transition and grant under the team lock so a concurrent
	// acceptance for the same team sees the roster this one produced. The
	// player lock, always taken second, keeps one player from signing twice.
	unlockTeam := s.teamLocks.Lock(t.RoleID)
	defer unlockTeam()
	unlockPlayer := s.playerLocks.Lock(offer.PlayerID)
	defer unlockPlayer()

	player, err := s.authority.Member(ctx, offer.PlayerID)
	if err != nil {
		return RespondResult{}, err
	}
	held, err := s.authority.TeamsHeld(ctx, player)
	if err != nil {
		return RespondResult{}, err
	}
	if !player.IsFreeAgent(cfg) || len(held) > 0 {
		return s.rejectUnavailable(ctx, offer, t, held)
	}

	size, err := s.authority.CountRosterSize(ctx, t.RoleID)
	if err != nil {
		return RespondResult{}, err
	}
	if size >= roster.Capacity {
		return s.rejectTeamFull(ctx, offer, t, size)
	}

	at := s.now().UTC()
	signing := history.Entry{
		Kind:         history.KindSigning,
		PlayerID:     offer.PlayerID,
		PlayerName:   offer.PlayerName,
		TeamName:     t.Name,
		TeamLogoURL:  t.LogoURL,
		Position:     offer.Position,
		JerseyNumber: offer.JerseyNumber,
		OccurredAt:   at,
	}
	accepted, err := s.offerRepo.Accept(ctx, offer.ID, at, signing)
	if err != nil {
		return RespondResult{}, persistenceErr("accept offer", err)
	}
	if !accepted {
		return RespondResult{}, fmt.Errorf("%w: offer %d", ErrOfferResolved, offer.ID)
	}

	offer.Status = transfer.StatusAccepted
	offer.ResolvedAt = &at
	result := RespondResult{Offer: offer, Team: t, Outcome: OutcomeAccepted, RosterSize: size + 1}

	if err := s.directory.GrantRoles(ctx, offer.PlayerID, cfg.PlayerRoleID, t.RoleID); err != nil {
		s.logger.ErrorContext(ctx, "grant roles after acceptance failed", "offer_id", offer.ID, "player_id", offer.PlayerID, "error", err)
		return result, membershipErr("grant player and team roles", err)
	}
	if err := s.directory.RevokeRoles(ctx, offer.PlayerID, cfg.FreeAgentRoleID); err != nil {
		s.logger.ErrorContext(ctx, "revoke free agent role failed", "offer_id", offer.ID, "player_id", offer.PlayerID, "error", err)
		return result, membershipErr("revoke free agent role", err)
	}

	s.logger.InfoContext(ctx, "offer accepted",
		"offer_id", offer.ID,
		"player_id", offer.PlayerID,
		"team_role_id", t.RoleID,
		"roster_size", result.RosterSize,
	)
	return result, nil
}

func (s *TransferService) rejectTeamFull(ctx context.Context, offer transfer.Offer, t team.Team, size int) (RespondResult, error) {
	at := s.now().UTC()
	ok, err := s.offerRepo.Resolve(ctx, offer.ID, transfer.StatusRejected, at)
	if err != nil {
		return RespondResult{}, persistenceErr("reject offer", err)
	}
	if !ok {
		return RespondResult{}, fmt.Errorf("%w: offer %d", ErrOfferResolved, offer.ID)
	}

	offer.Status = transfer.StatusRejected
	offer.ResolvedAt = &at
	s.logger.WarnContext(ctx, "offer rejected, roster full",
		"offer_id", offer.ID,
		"team_role_id", t.RoleID,
		"roster_size", size,
	)
	return RespondResult{Offer: offer, Team: t, Outcome: OutcomeTeamFull, RosterSize: size}, nil
}

func (s *TransferService) rejectUnavailable(ctx context.Context, offer transfer.Offer, t team.Team, held []team.Team) (RespondResult, error) {
	at := s.now().UTC()
	ok, err := s.offerRepo.Resolve(ctx, offer.ID, transfer.StatusRejected, at)
	if err != nil {
		return RespondResult{}, persistenceErr("reject offer", err)
	}
	if !ok {
		return RespondResult{}, fmt.Errorf("%w: offer %d", ErrOfferResolved, offer.ID)
	}

	offer.Status = transfer.StatusRejected
	offer.ResolvedAt = &at
	s.logger.WarnContext(ctx, "offer rejected, player no longer a free agent",
		"offer_id", offer.ID,
		"player_id", offer.PlayerID,
		"team_role_id", t.RoleID,
		"teams_held", len(held),
	)
	return RespondResult{Offer: offer, Team: t, Outcome: OutcomeAlreadySigned}, nil
}

func (s *TransferService) reject(ctx context.Context, cfg settings.Settings, offer transfer.Offer, t team.Team) (RespondResult, error) {
	at := s.now().UTC()
	ok, err := s.offerRepo.Resolve(ctx, offer.ID, transfer.StatusRejected, at)
	if err != nil {
		return RespondResult{}, persistenceErr("reject offer", err)
	}
	if !ok {
		return RespondResult{}, fmt.Errorf("%w: offer %d", ErrOfferResolved, offer.ID)
	}

	offer.Status = transfer.StatusRejected
	offer.ResolvedAt = &at
	result := RespondResult{Offer: offer, Team: t, Outcome: OutcomeRejected}

	if err := s.directory.GrantRoles(ctx, offer.PlayerID, cfg.FreeAgentRoleID); err != nil {
		s.logger.ErrorContext(ctx, "restore free agent role failed", "offer_id", offer.ID, "player_id", offer.PlayerID, "error", err)
		return result, membershipErr("grant free agent role", err)
	}

	s.logger.InfoContext(ctx, "offer rejected", "offer_id", offer.ID, "player_id", offer.PlayerID, "team_role_id", t.RoleID)
	return result, nil
}

// Release removes a player from the manager's team and logs it.
func (s *TransferService) Release(ctx context.Context, input ReleaseInput) (out ReleaseResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Release")
	defer func() { endSpan(span, err) }()

	input.ManagerID = strings.TrimSpace(input.ManagerID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.Reason = strings.TrimSpace(input.Reason)
	if input.ManagerID == "" {
		return ReleaseResult{}, fmt.Errorf("%w: manager id is required", ErrInvalidInput)
	}
	if input.PlayerID == "" {
		return ReleaseResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.Reason == "" {
		input.Reason = history.DefaultReleaseReason
	}

	cfg, err := loadConfigured(ctx, s.settingsRepo)
	if err != nil {
		return ReleaseResult{}, err
	}

	manager, err := s.authority.Member(ctx, input.ManagerID)
	if err != nil {
		return ReleaseResult{}, err
	}
	if !manager.IsManager(cfg) {
		return ReleaseResult{}, ErrNotManager
	}

	t, err := s.authority.ManagedTeam(ctx, manager)
	if err != nil {
		return ReleaseResult{}, err
	}

	unlockTeam := s.teamLocks.Lock(t.RoleID)
	defer unlockTeam()
	unlockPlayer := s.playerLocks.Lock(input.PlayerID)
	defer unlockPlayer()

	player, err := s.authority.Member(ctx, input.PlayerID)
	if err != nil {
		return ReleaseResult{}, err
	}
	if !player.HasRole(t.RoleID) {
		return ReleaseResult{}, ErrPlayerNotOnTeam
	}

	latest, _, err := s.offerRepo.LatestForPlayer(ctx, player.ID, t.RoleID)
	if err != nil {
		return ReleaseResult{}, persistenceErr("get latest offer", err)
	}

	entry := history.Entry{
		Kind:         history.KindRelease,
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		TeamName:     t.Name,
		TeamLogoURL:  t.LogoURL,
		Position:     latest.Position,
		JerseyNumber: latest.JerseyNumber,
		Reason:       input.Reason,
		OccurredAt:   s.now().UTC(),
	}
	removed, err := s.offerRepo.Release(ctx, player.ID, entry)
	if err != nil {
		return ReleaseResult{}, persistenceErr("release player", err)
	}

	result := ReleaseResult{Team: t, Entry: entry, RemovedOffers: removed}
	if err := s.directory.RevokeRoles(ctx, player.ID, t.RoleID, cfg.PlayerRoleID); err != nil {
		s.logger.ErrorContext(ctx, "revoke roles after release failed", "player_id", player.ID, "team_role_id", t.RoleID, "error", err)
		return result, membershipErr("revoke team and player roles", err)
	}
	if err := s.directory.GrantRoles(ctx, player.ID, cfg.FreeAgentRoleID); err != nil {
		s.logger.ErrorContext(ctx, "grant free agent role after release failed", "player_id", player.ID, "error", err)
		return result, membershipErr("grant free agent role", err)
	}

	if err := s.announcer.AnnounceRelease(ctx, cfg.OfferChannelID, entry, t); err != nil {
		s.logger.WarnContext(ctx, "announce release failed", "player_id", player.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "player released",
		"player_id", player.ID,
		"team_role_id", t.RoleID,
		"reason", entry.Reason,
		"removed_offers", removed,
	)
	return result, nil
}

func (s *TransferService) getOffer(ctx context.Context, id int64) (transfer.Offer, error) {
	offer, ok, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return transfer.Offer{}, persistenceErr("get offer", err)
	}
	if !ok {
		return transfer.Offer{}, fmt.Errorf("%w: offer %d", ErrNotFound, id)
	}
	return offer, nil
}
