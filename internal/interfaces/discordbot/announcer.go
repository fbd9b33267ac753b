package discordbot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/platform/resilience"
)

// MessageSender is the slice of *discordgo.Session used to post messages.
type MessageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts offers and releases to the offer channel.
type Announcer struct {
	sender  MessageSender
	breaker *resilience.Breaker
}

func NewAnnouncer(sender MessageSender, breaker *resilience.Breaker) *Announcer {
	return &Announcer{sender: sender, breaker: breaker}
}

func (a *Announcer) AnnounceOffer(ctx context.Context, channelID string, offer transfer.Offer, t team.Team, rosterSize int) error {
	ctx, span := startSpan(ctx, "discordbot.Announcer.AnnounceOffer")
	defer span.End()

	return a.send(ctx, channelID, &discordgo.MessageSend{
		Content:    userMention(offer.PlayerID) + " 🔔 **¡TIENES UNA OFERTA!**",
		Embeds:     []*discordgo.MessageEmbed{offerEmbed(offer, t, rosterSize)},
		Components: offerButtons(offer.ID),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{offer.PlayerID},
		},
	})
}

func (a *Announcer) AnnounceRelease(ctx context.Context, channelID string, entry history.Entry, t team.Team) error {
	ctx, span := startSpan(ctx, "discordbot.Announcer.AnnounceRelease")
	defer span.End()

	return a.send(ctx, channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{releaseEmbed(entry, t)},
	})
}

func (a *Announcer) send(ctx context.Context, channelID string, msg *discordgo.MessageSend) error {
	if channelID == "" {
		return crerr.New("announcement channel is not configured")
	}
	err := a.breaker.Do(func() error {
		_, sendErr := a.sender.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
		return sendErr
	})
	if err != nil {
		return crerr.Wrapf(err, "send message to channel %s", channelID)
	}
	return nil
}
