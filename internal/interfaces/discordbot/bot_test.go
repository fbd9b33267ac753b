package discordbot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

type fakeInteractionAPI struct {
	mu         sync.Mutex
	calls      []string
	acks       []*discordgo.InteractionResponse
	edits      []*discordgo.WebhookEdit
	followups  []*discordgo.WebhookParams
	respondErr error
}

func (f *fakeInteractionAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeInteractionAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.record("respond")
	f.acks = append(f.acks, resp)
	return f.respondErr
}

func (f *fakeInteractionAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("edit")
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeInteractionAPI) InteractionResponseDelete(_ *discordgo.Interaction, _ ...discordgo.RequestOption) error {
	f.record("delete")
	return nil
}

func (f *fakeInteractionAPI) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("followup")
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func staticReply(r reply) func(context.Context) reply {
	return func(context.Context) reply { return r }
}

func TestDeliverCommand(t *testing.T) {
	t.Parallel()

	t.Run("private command edits ephemeral deferral", func(t *testing.T) {
		t.Parallel()
		api := &fakeInteractionAPI{}

		_, err := deliverCommand(t.Context(), api, &discordgo.Interaction{}, false, staticReply(reply{content: "ok", ephemeral: true}))
		require.NoError(t, err)
		assert.Equal(t, []string{"respond", "edit"}, api.calls)
		require.NotNil(t, api.acks[0].Data)
		assert.Equal(t, discordgo.MessageFlagsEphemeral, api.acks[0].Data.Flags)
		assert.Equal(t, "ok", *api.edits[0].Content)
	})

	t.Run("public command keeps embeds public", func(t *testing.T) {
		t.Parallel()
		api := &fakeInteractionAPI{}
		embed := &discordgo.MessageEmbed{Title: "equipos"}

		_, err := deliverCommand(t.Context(), api, &discordgo.Interaction{}, true, staticReply(reply{embeds: []*discordgo.MessageEmbed{embed}}))
		require.NoError(t, err)
		assert.Equal(t, []string{"respond", "edit"}, api.calls)
		assert.Nil(t, api.acks[0].Data)
		require.NotNil(t, api.edits[0].Embeds)
		assert.Equal(t, "equipos", (*api.edits[0].Embeds)[0].Title)
	})

	t.Run("public command with private failure", func(t *testing.T) {
		t.Parallel()
		api := &fakeInteractionAPI{}

		_, err := deliverCommand(t.Context(), api, &discordgo.Interaction{}, true, staticReply(errorReply(errNotAdmin)))
		require.NoError(t, err)
		assert.Equal(t, []string{"respond", "delete", "followup"}, api.calls)
		assert.Equal(t, discordgo.MessageFlagsEphemeral, api.followups[0].Flags)
	})

	t.Run("ack failure skips the handler", func(t *testing.T) {
		t.Parallel()
		api := &fakeInteractionAPI{respondErr: errors.New("unknown interaction")}
		ran := false

		_, err := deliverCommand(t.Context(), api, &discordgo.Interaction{}, false, func(context.Context) reply {
			ran = true
			return reply{}
		})
		require.Error(t, err)
		assert.False(t, ran)
	})
}

func TestDeliverComponent(t *testing.T) {
	t.Parallel()

	t.Run("decision replaces offer and drops buttons", func(t *testing.T) {
		t.Parallel()
		api := &fakeInteractionAPI{}
		embed := &discordgo.MessageEmbed{Title: "confirmado"}

		_, err := deliverComponent(t.Context(), api, &discordgo.Interaction{}, staticReply(reply{embeds: []*discordgo.MessageEmbed{embed}, clearsView: true}))
		require.NoError(t, err)
		assert.Equal(t, []string{"respond", "edit"}, api.calls)
		assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, api.acks[0].Type)
		require.NotNil(t, api.edits[0].Components)
		assert.Empty(t, *api.edits[0].Components)
	})

	t.Run("decision with role warning", func(t *testing.T) {
		t.Parallel()
		api := &fakeInteractionAPI{}

		_, err := deliverComponent(t.Context(), api, &discordgo.Interaction{}, staticReply(reply{content: "roles", clearsView: true}))
		require.NoError(t, err)
		assert.Equal(t, []string{"respond", "edit", "followup"}, api.calls)
		assert.Equal(t, discordgo.MessageFlagsEphemeral, api.followups[0].Flags)
	})

	t.Run("refusal leaves offer untouched", func(t *testing.T) {
		t.Parallel()
		api := &fakeInteractionAPI{}

		_, err := deliverComponent(t.Context(), api, &discordgo.Interaction{}, staticReply(errorReply(errNotAdmin)))
		require.NoError(t, err)
		assert.Equal(t, []string{"respond", "followup"}, api.calls)
		assert.Empty(t, api.edits)
	})
}

type leagueGuild string

func (g leagueGuild) BindGuild(guildID string) bool { return string(g) == guildID }

func configInteraction(guildID, roleSuffix string) *discordgo.InteractionCreate {
	in := commandInteraction(cmdConfig, managerID, true,
		option("agente_libre", discordgo.ApplicationCommandOptionRole, freeAgentRole+roleSuffix),
		option("jugador", discordgo.ApplicationCommandOptionRole, playerRole+roleSuffix),
		option("dt", discordgo.ApplicationCommandOptionRole, managerRole+roleSuffix),
		option("canal_fichajes", discordgo.ApplicationCommandOptionChannel, "200"),
		option("canal_bienvenida", discordgo.ApplicationCommandOptionChannel, "201"),
	)
	in.GuildID = guildID
	return &discordgo.InteractionCreate{Interaction: in}
}

func TestBot_OnlyServesLeagueGuild(t *testing.T) {
	t.Parallel()
	env := newHandlerEnv(t, settings.Settings{})
	pool, err := ants.NewPool(1)
	require.NoError(t, err)
	api := &fakeInteractionAPI{}
	b := &Bot{
		api:     api,
		handler: env.handler,
		binder:  leagueGuild("900"),
		pool:    pool,
		opts:    Options{Workers: 1, ActionTimeout: time.Second},
		logger:  logging.NewNop(),
	}

	// An administrator of another guild, then a DM, then the league itself.
	b.onInteraction(nil, configInteraction("901", "9"))
	b.onInteraction(nil, configInteraction("", "8"))
	b.onInteraction(nil, configInteraction("900", ""))
	require.NoError(t, pool.ReleaseTimeout(5*time.Second))

	assert.Equal(t, []string{"respond", "edit"}, api.calls)
	cfg, err := env.settings.Get(t.Context())
	require.NoError(t, err)
	assert.Equal(t, freeAgentRole, cfg.FreeAgentRoleID)
	assert.Equal(t, managerRole, cfg.ManagerRoleID)
}

func TestBot_IgnoresMembersJoiningOtherGuilds(t *testing.T) {
	t.Parallel()
	b := &Bot{binder: leagueGuild("900"), logger: logging.NewNop()}

	// A nil session would panic past the guild check.
	assert.NotPanics(t, func() {
		b.onMemberAdd(nil, &discordgo.GuildMemberAdd{Member: &discordgo.Member{GuildID: "901", User: &discordgo.User{ID: "7"}}})
	})
}

func TestCommandDefinitions_GuildOnly(t *testing.T) {
	t.Parallel()

	for _, c := range commandDefinitions() {
		require.NotNil(t, c.DMPermission, c.Name)
		assert.False(t, *c.DMPermission, c.Name)
	}
}
