package discordbot

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/discordgo"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

const intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

// GuildBinder learns the guild from the gateway when none was configured.
type GuildBinder interface {
	BindGuild(guildID string) bool
}

// interactionAPI is the slice of *discordgo.Session used to answer
// interactions.
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Options struct {
	GuildID       string
	Workers       int
	ActionTimeout time.Duration
}

// Bot owns the gateway session. Interactions run on a bounded worker pool so a
// slow Discord or database call never blocks the gateway read loop.
type Bot struct {
	session *discordgo.Session
	api     interactionAPI
	handler *Handler
	binder  GuildBinder
	pool    *ants.Pool
	opts    Options
	logger  *logging.Logger
}

// NewSession creates an unopened session with the intents the bot relies on.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = intents
	return session, nil
}

func New(session *discordgo.Session, handler *Handler, binder GuildBinder, opts Options, logger *logging.Logger) (*Bot, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = 10 * time.Second
	}

	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("create interaction pool: %w", err)
	}

	b := &Bot{
		session: session,
		api:     session,
		handler: handler,
		binder:  binder,
		pool:    pool,
		opts:    opts,
		logger:  logger.Named("discordbot"),
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onGuildCreate)
	session.AddHandler(b.onInteraction)
	session.AddHandler(b.onMemberAdd)
	return b, nil
}

// Start opens the gateway and publishes the slash commands. Commands are
// registered per guild when one is configured, which makes them visible
// immediately; otherwise they are registered globally.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	appID := ""
	if b.session.State != nil && b.session.State.User != nil {
		appID = b.session.State.User.ID
	}
	registered, err := b.session.ApplicationCommandBulkOverwrite(appID, b.opts.GuildID, commandDefinitions(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("register slash commands: %w", err)
	}

	b.logger.InfoContext(ctx, "discord bot started", "commands", len(registered), "guild_id", b.opts.GuildID, "workers", b.opts.Workers)
	return nil
}

// Stop waits for in-flight interactions before closing the gateway.
func (b *Bot) Stop(ctx context.Context) error {
	timeout := b.opts.ActionTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := b.pool.ReleaseTimeout(timeout); err != nil {
		b.logger.WarnContext(ctx, "interaction pool did not drain", "error", err)
	}
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
	for _, g := range r.Guilds {
		b.bindGuild(g.ID)
	}
}

func (b *Bot) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	b.bindGuild(g.ID)
}

func (b *Bot) bindGuild(guildID string) {
	if b.binder == nil {
		return
	}
	if !b.binder.BindGuild(guildID) {
		b.logger.Warn("ignoring events from a second guild", "guild_id", guildID)
	}
}

// inLeague reports whether an event belongs to the league guild. Direct
// messages carry no guild and never qualify.
func (b *Bot) inLeague(guildID string) bool {
	if guildID == "" {
		return false
	}
	if b.binder != nil {
		return b.binder.BindGuild(guildID)
	}
	return b.opts.GuildID == guildID
}

func (b *Bot) onInteraction(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	in := ic.Interaction
	if in.Type != discordgo.InteractionApplicationCommand && in.Type != discordgo.InteractionMessageComponent {
		return
	}
	if !b.inLeague(in.GuildID) {
		b.logger.Warn("dropping interaction from outside the league guild", "guild_id", in.GuildID, "user_id", interactionUserID(in))
		return
	}
	b.submit("interaction", func(ctx context.Context) {
		b.serveInteraction(ctx, in)
	})
}

func (b *Bot) onMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if !b.inLeague(m.GuildID) {
		return
	}
	memberCount := 0
	if s.State != nil {
		if g, err := s.State.Guild(m.GuildID); err == nil {
			memberCount = g.MemberCount
		}
	}
	b.submit("welcome", func(ctx context.Context) {
		b.welcome(ctx, s, m.Member, memberCount)
	})
}

// submit runs fn on the worker pool with its own deadline. A full pool blocks
// the gateway handler, which is the back pressure we want.
func (b *Bot) submit(kind string, fn func(ctx context.Context)) {
	err := b.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.opts.ActionTimeout)
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				b.logger.ErrorContext(ctx, "discord handler panic", "kind", kind, "panic", rec, "stack", string(debug.Stack()))
			}
		}()
		fn(ctx)
	})
	if err != nil {
		b.logger.Error("submit discord event", "kind", kind, "error", err)
	}
}

func (b *Bot) serveInteraction(ctx context.Context, in *discordgo.Interaction) {
	ctx = logging.ContextWith(ctx, "guild_id", in.GuildID, "user_id", interactionUserID(in))
	switch in.Type {
	case discordgo.InteractionApplicationCommand:
		name := in.ApplicationCommandData().Name
		ctx, span := startInteractionSpan(ctx, "discord.command "+name,
			attribute.String("discord.command", name),
			attribute.String("discord.guild_id", in.GuildID),
			attribute.String("discord.user_id", interactionUserID(in)),
		)
		defer span.End()

		r, err := deliverCommand(ctx, b.api, in, publicCommands[name], func(ctx context.Context) reply {
			return b.handler.HandleCommand(ctx, in)
		})
		b.finish(ctx, span, r, err, "command", name)

	case discordgo.InteractionMessageComponent:
		customID := in.MessageComponentData().CustomID
		ctx, span := startInteractionSpan(ctx, "discord.component",
			attribute.String("discord.custom_id", customID),
			attribute.String("discord.guild_id", in.GuildID),
			attribute.String("discord.user_id", interactionUserID(in)),
		)
		defer span.End()

		r, err := deliverComponent(ctx, b.api, in, func(ctx context.Context) reply {
			return b.handler.HandleComponent(ctx, in)
		})
		b.finish(ctx, span, r, err, "custom_id", customID)
	}
}

func (b *Bot) finish(ctx context.Context, span trace.Span, r reply, deliverErr error, args ...any) {
	if r.err != nil && !isBusinessRefusal(r.err) {
		span.RecordError(r.err)
		span.SetStatus(codes.Error, r.err.Error())
	}
	if deliverErr != nil {
		span.RecordError(deliverErr)
		span.SetStatus(codes.Error, deliverErr.Error())
		b.logger.ErrorContext(ctx, "deliver interaction reply", append(args, "error", deliverErr)...)
	}
}

// deliverCommand acknowledges within Discord's three second window, runs the
// command and then edits the deferred response. A private reply to a command
// deferred in public replaces the public placeholder with an ephemeral
// followup.
func deliverCommand(ctx context.Context, api interactionAPI, in *discordgo.Interaction, public bool, run func(context.Context) reply) (reply, error) {
	ack := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if !public {
		ack.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	if err := api.InteractionRespond(in, ack, discordgo.WithContext(ctx)); err != nil {
		return reply{}, crerr.Wrap(err, "defer command response")
	}

	r := run(ctx)
	if public && r.ephemeral {
		if err := api.InteractionResponseDelete(in, discordgo.WithContext(ctx)); err != nil {
			return r, crerr.Wrap(err, "delete public placeholder")
		}
		return r, followup(ctx, api, in, r)
	}

	edit := &discordgo.WebhookEdit{Content: &r.content}
	if len(r.embeds) > 0 {
		edit.Embeds = &r.embeds
	}
	if _, err := api.InteractionResponseEdit(in, edit, discordgo.WithContext(ctx)); err != nil {
		return r, crerr.Wrap(err, "edit command response")
	}
	return r, nil
}

// deliverComponent defers a message update. A successful decision replaces
// the offer message and drops its buttons; a refusal goes only to the member
// who pressed the button and leaves the offer untouched.
func deliverComponent(ctx context.Context, api interactionAPI, in *discordgo.Interaction, run func(context.Context) reply) (reply, error) {
	ack := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
	if err := api.InteractionRespond(in, ack, discordgo.WithContext(ctx)); err != nil {
		return reply{}, crerr.Wrap(err, "defer component update")
	}

	r := run(ctx)
	if !r.clearsView {
		return r, followup(ctx, api, in, r)
	}

	components := []discordgo.MessageComponent{}
	empty := ""
	edit := &discordgo.WebhookEdit{Content: &empty, Embeds: &r.embeds, Components: &components}
	if _, err := api.InteractionResponseEdit(in, edit, discordgo.WithContext(ctx)); err != nil {
		return r, crerr.Wrap(err, "update offer message")
	}
	if r.content != "" {
		return r, followup(ctx, api, in, reply{content: r.content, ephemeral: true})
	}
	return r, nil
}

func followup(ctx context.Context, api interactionAPI, in *discordgo.Interaction, r reply) error {
	params := &discordgo.WebhookParams{Content: r.content, Embeds: r.embeds}
	if r.ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	if _, err := api.FollowupMessageCreate(in, false, params, discordgo.WithContext(ctx)); err != nil {
		return crerr.Wrap(err, "send followup")
	}
	return nil
}

func (b *Bot) welcome(ctx context.Context, sender MessageSender, member *discordgo.Member, memberCount int) {
	userID := ""
	if member != nil && member.User != nil {
		userID = member.User.ID
	}
	ctx, span := startInteractionSpan(ctx, "discord.member_add", attribute.String("discord.user_id", userID))
	defer span.End()

	channelID, msg, ok, err := b.handler.Welcome(ctx, member, memberCount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.ErrorContext(ctx, "build welcome message", "user_id", userID, "error", err)
		return
	}
	if !ok {
		return
	}
	if _, err := sender.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.ErrorContext(ctx, "send welcome message", "user_id", userID, "channel_id", channelID, "error", err)
	}
}
