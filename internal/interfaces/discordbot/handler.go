package discordbot

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/haxball-league/internal/domain/roster"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
	"github.com/riskibarqy/haxball-league/internal/usecase"
)

var errNotAdmin = errors.New("administrator permission required")

// reply is what an interaction handler produces; the bot decides how to
// deliver it.
type reply struct {
	content    string
	embeds     []*discordgo.MessageEmbed
	ephemeral  bool
	clearsView bool // component replies replace the offer message
	err        error
}

func errorReply(err error) reply {
	return reply{content: errorMessage(err), ephemeral: true, err: err}
}

// Handler maps interactions to use cases. It holds no session so it can be
// exercised without a gateway connection.
type Handler struct {
	settingsService *usecase.SettingsService
	teamService     *usecase.TeamService
	transferService *usecase.TransferService
	validator       *validator.Validate
	logger          *logging.Logger
	now             func() time.Time
}

func NewHandler(
	settingsService *usecase.SettingsService,
	teamService *usecase.TeamService,
	transferService *usecase.TransferService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		settingsService: settingsService,
		teamService:     teamService,
		transferService: transferService,
		validator:       validator.New(),
		logger:          logger.Named("discordbot"),
		now:             time.Now,
	}
}

// HandleCommand runs a slash command on behalf of the invoking member.
func (h *Handler) HandleCommand(ctx context.Context, in *discordgo.Interaction) reply {
	ctx, span := startSpan(ctx, "discordbot.Handler.HandleCommand")
	defer span.End()

	data := in.ApplicationCommandData()
	opts := newCommandOptions(data.Options)
	actorID := interactionUserID(in)

	var r reply
	switch data.Name {
	case cmdConfig:
		r = h.configure(ctx, in, opts)
	case cmdRegisterTeam:
		r = h.registerTeam(ctx, in, opts)
	case cmdSign:
		r = h.sign(ctx, actorID, opts)
	case cmdRelease:
		r = h.release(ctx, actorID, opts)
	case cmdTeams:
		r = h.listTeams(ctx)
	case cmdMyTeam:
		r = h.myTeam(ctx, actorID)
	case cmdTeamInfo:
		r = h.teamInfo(ctx, opts)
	default:
		h.logger.WarnContext(ctx, "unknown command", "command", data.Name)
		return reply{content: "❌ Comando desconocido", ephemeral: true}
	}

	if r.err != nil {
		h.logFailure(ctx, "command failed", r.err, "command", data.Name, "user_id", actorID)
	}
	return r
}

// HandleComponent answers an offer button.
func (h *Handler) HandleComponent(ctx context.Context, in *discordgo.Interaction) reply {
	ctx, span := startSpan(ctx, "discordbot.Handler.HandleComponent")
	defer span.End()

	customID := in.MessageComponentData().CustomID
	actorID := interactionUserID(in)

	decision, offerID, err := DecodeTransferButton(customID)
	if err != nil {
		h.logFailure(ctx, "decode button failed", err, "custom_id", customID)
		return errorReply(err)
	}

	result, err := h.transferService.Respond(ctx, usecase.RespondInput{
		ActorID:  actorID,
		OfferID:  offerID,
		Decision: decision,
	})
	if err != nil && !errors.Is(err, usecase.ErrMembershipSync) {
		h.logFailure(ctx, "respond to offer failed", err, "offer_id", offerID, "user_id", actorID)
		return errorReply(err)
	}

	r := reply{embeds: []*discordgo.MessageEmbed{respondEmbed(result, h.now())}, clearsView: true}
	if err != nil {
		// The decision is stored; only the role update failed.
		h.logFailure(ctx, "respond to offer left roles out of sync", err, "offer_id", offerID, "user_id", actorID)
		r.content = errorMessage(err)
		r.err = err
	}
	return r
}

func (h *Handler) configure(ctx context.Context, in *discordgo.Interaction, opts commandOptions) reply {
	if !isAdmin(in) {
		return errorReply(errNotAdmin)
	}

	payload := configPayload{
		FreeAgentRoleID:  opts.str("agente_libre"),
		PlayerRoleID:     opts.str("jugador"),
		ManagerRoleID:    opts.str("dt"),
		OfferChannelID:   opts.str("canal_fichajes"),
		WelcomeChannelID: opts.str("canal_bienvenida"),
		WelcomeImageURL:  opts.str("imagen_bienvenida"),
	}
	if err := validatePayload(h.validator, payload); err != nil {
		return errorReply(err)
	}

	if _, err := h.settingsService.Configure(ctx, usecase.ConfigureInput(payload)); err != nil {
		return errorReply(err)
	}
	return reply{content: "✅ Configuración guardada correctamente", ephemeral: true}
}

func (h *Handler) registerTeam(ctx context.Context, in *discordgo.Interaction, opts commandOptions) reply {
	if !isAdmin(in) {
		return errorReply(errNotAdmin)
	}

	payload := registerTeamPayload{
		RoleID:  opts.str("rol_equipo"),
		Name:    opts.str("nombre"),
		LogoURL: opts.str("logo"),
	}
	if err := validatePayload(h.validator, payload); err != nil {
		return errorReply(err)
	}

	created, err := h.teamService.RegisterTeam(ctx, usecase.RegisterTeamInput(payload))
	if err != nil {
		return errorReply(err)
	}
	return reply{embeds: []*discordgo.MessageEmbed{teamRegisteredEmbed(created)}, ephemeral: true}
}

func (h *Handler) sign(ctx context.Context, managerID string, opts commandOptions) reply {
	payload := signPayload{
		PlayerID:     opts.str("jugador"),
		Position:     opts.str("posicion"),
		JerseyNumber: opts.integer("dorsal"),
	}
	if err := validatePayload(h.validator, payload); err != nil {
		return errorReply(err)
	}

	result, err := h.transferService.Propose(ctx, usecase.ProposeInput{
		ManagerID:    managerID,
		PlayerID:     payload.PlayerID,
		Position:     payload.Position,
		JerseyNumber: payload.JerseyNumber,
	})
	if err != nil {
		return errorReply(err)
	}
	return reply{content: "✅ Oferta enviada a " + userMention(result.Offer.PlayerID), ephemeral: true}
}

func (h *Handler) release(ctx context.Context, managerID string, opts commandOptions) reply {
	payload := releasePayload{
		PlayerID: opts.str("jugador"),
		Reason:   opts.str("motivo"),
	}
	if err := validatePayload(h.validator, payload); err != nil {
		return errorReply(err)
	}

	result, err := h.transferService.Release(ctx, usecase.ReleaseInput{
		ManagerID: managerID,
		PlayerID:  payload.PlayerID,
		Reason:    payload.Reason,
	})
	if err != nil && !errors.Is(err, usecase.ErrMembershipSync) {
		return errorReply(err)
	}

	r := reply{content: "✅ " + userMention(result.Entry.PlayerID) + " ha sido dado de baja", ephemeral: true}
	if err != nil {
		r.content += "\n" + errorMessage(err)
		r.err = err
	}
	return r
}

func (h *Handler) listTeams(ctx context.Context) reply {
	summaries, err := h.teamService.ListTeams(ctx)
	if err != nil {
		return errorReply(err)
	}
	if len(summaries) == 0 {
		return reply{content: "❌ No hay equipos registrados", ephemeral: true}
	}
	return reply{embeds: []*discordgo.MessageEmbed{teamsEmbed(summaries, h.now())}}
}

func (h *Handler) myTeam(ctx context.Context, managerID string) reply {
	details, err := h.teamService.MyTeam(ctx, managerID)
	if err != nil {
		return errorReply(err)
	}
	return reply{embeds: []*discordgo.MessageEmbed{myTeamEmbed(details, h.now())}}
}

func (h *Handler) teamInfo(ctx context.Context, opts commandOptions) reply {
	payload := teamInfoPayload{RoleID: opts.str("equipo")}
	if err := validatePayload(h.validator, payload); err != nil {
		return errorReply(err)
	}

	details, err := h.teamService.TeamInfo(ctx, payload.RoleID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return reply{content: "❌ Este equipo no está registrado en el sistema", ephemeral: true, err: err}
		}
		return errorReply(err)
	}
	return reply{embeds: []*discordgo.MessageEmbed{teamInfoEmbed(details, h.now())}}
}

// Welcome builds the greeting for a member who just joined. ok is false when
// no welcome channel is configured.
func (h *Handler) Welcome(ctx context.Context, member *discordgo.Member, memberCount int) (channelID string, msg *discordgo.MessageSend, ok bool, err error) {
	ctx, span := startSpan(ctx, "discordbot.Handler.Welcome")
	defer span.End()

	if member == nil || member.User == nil || member.User.Bot {
		return "", nil, false, nil
	}

	cfg, err := h.settingsService.Get(ctx)
	if err != nil {
		return "", nil, false, err
	}
	if cfg.WelcomeChannelID == "" {
		return "", nil, false, nil
	}

	actor := roster.NewActor(member.User.ID, member.User.Username)
	actor.AvatarURL = member.User.AvatarURL("256")
	return cfg.WelcomeChannelID, &discordgo.MessageSend{
		Content: userMention(member.User.ID) + " 👋",
		Embeds:  []*discordgo.MessageEmbed{welcomeEmbed(actor, memberCount, cfg.WelcomeImageURL, h.now())},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{member.User.ID},
		},
	}, true, nil
}

// logFailure logs expected business refusals at info and everything else
// at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if isBusinessRefusal(err) {
		h.logger.InfoContext(ctx, msg, args...)
		return
	}
	h.logger.ErrorContext(ctx, msg, args...)
}

func isBusinessRefusal(err error) bool {
	return usecase.IsRefusal(err) || errors.Is(err, errNotAdmin)
}

func interactionUserID(in *discordgo.Interaction) string {
	if in.Member != nil && in.Member.User != nil {
		return in.Member.User.ID
	}
	if in.User != nil {
		return in.User.ID
	}
	return ""
}

func isAdmin(in *discordgo.Interaction) bool {
	return in.Member != nil && in.Member.Permissions&discordgo.PermissionAdministrator != 0
}
