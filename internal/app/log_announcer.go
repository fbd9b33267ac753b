package app

import (
	"context"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

// logAnnouncer stands in for the offer channel when the bot runs without a
// Discord connection.
type logAnnouncer struct {
	logger *logging.Logger
}

func newLogAnnouncer(logger *logging.Logger) *logAnnouncer {
	return &logAnnouncer{logger: logger.Named("announcer")}
}

func (a *logAnnouncer) AnnounceOffer(ctx context.Context, channelID string, offer transfer.Offer, t team.Team, rosterSize int) error {
	a.logger.InfoContext(ctx, "offer announced",
		"channel_id", channelID,
		"offer_id", offer.ID,
		"player_id", offer.PlayerID,
		"team", t.Name,
		"roster_size", rosterSize,
	)
	return nil
}

func (a *logAnnouncer) AnnounceRelease(ctx context.Context, channelID string, entry history.Entry, t team.Team) error {
	a.logger.InfoContext(ctx, "release announced",
		"channel_id", channelID,
		"player_id", entry.PlayerID,
		"team", t.Name,
	)
	return nil
}
