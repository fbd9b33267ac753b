package discordbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/usecase"
)

func TestRespondEmbedTitles(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)
	cases := map[usecase.Outcome]string{
		usecase.OutcomeAccepted:      "✅ ¡FICHAJE CONFIRMADO!",
		usecase.OutcomeTeamFull:      "❌ EQUIPO COMPLETO",
		usecase.OutcomeAlreadySigned: "❌ OFERTA ANULADA",
		usecase.OutcomeRejected:      "❌ FICHAJE RECHAZADO",
	}
	for outcome, title := range cases {
		result := usecase.RespondResult{
			Offer:   transfer.Offer{PlayerID: playerID},
			Team:    team.Team{RoleID: teamRole, Name: "Rayos"},
			Outcome: outcome,
		}
		assert.Equal(t, title, respondEmbed(result, at).Title, string(outcome))
	}
}
