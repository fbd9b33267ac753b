package discordbot

import (
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/roster"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/usecase"
)

const (
	colorGreen  = 0x2ecc71
	colorBlue   = 0x3498db
	colorRed    = 0xe74c3c
	colorPurple = 0x9b59b6
)

// maxFieldValue is Discord's limit for an embed field value.
const maxFieldValue = 1024

func userMention(id string) string { return "<@" + id + ">" }

func roleMention(id string) string { return "<@&" + id + ">" }

func capacityText(size int) string {
	return strconv.Itoa(size) + "/" + strconv.Itoa(roster.Capacity)
}

func jerseyText(n int) string {
	if n == 0 {
		return "Por asignar"
	}
	return strconv.Itoa(n)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func thumbnail(url string) *discordgo.MessageEmbedThumbnail {
	if url == "" {
		return nil
	}
	return &discordgo.MessageEmbedThumbnail{URL: url}
}

func field(name, value string, inline bool) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
}

// mentionList renders one line per member, truncated to fit a field.
func mentionList(actors []roster.Actor, prefix, empty string) string {
	if len(actors) == 0 {
		return empty
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, a := range actors {
		line := prefix + userMention(a.ID)
		if buf.Len()+len(line)+1 > maxFieldValue-4 {
			_, _ = buf.WriteString("\n…")
			break
		}
		if i > 0 {
			_ = buf.WriteByte('\n')
		}
		_, _ = buf.WriteString(line)
	}
	return buf.String()
}

func offerEmbed(offer transfer.Offer, t team.Team, rosterSize int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚽ NUEVA OFERTA DE FICHAJE",
		Description: "**" + t.Name + "** quiere ficharte para su plantilla",
		Color:       colorBlue,
		Thumbnail:   thumbnail(t.LogoURL),
		Fields: []*discordgo.MessageEmbedField{
			field("👤 Jugador", userMention(offer.PlayerID), true),
			field("⚽ Posición", offer.Position, true),
			field("🔢 Dorsal", jerseyText(offer.JerseyNumber), true),
			field("🏆 Equipo", t.Name, true),
			field("👔 Director Técnico", userMention(offer.ManagerID), true),
			field("📊 Plantilla Actual", capacityText(rosterSize), true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "¿Aceptas la oferta? Decide tu futuro"},
		Timestamp: timestamp(offer.CreatedAt),
	}
}

func offerButtons(offerID int64) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "✅ Aceptar Fichaje",
				Style:    discordgo.SuccessButton,
				CustomID: EncodeTransferButton(usecase.DecisionAccept, offerID),
			},
			discordgo.Button{
				Label:    "❌ Rechazar Fichaje",
				Style:    discordgo.DangerButton,
				CustomID: EncodeTransferButton(usecase.DecisionReject, offerID),
			},
		}},
	}
}

func releaseEmbed(entry history.Entry, t team.Team) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		field("👤 Jugador", userMention(entry.PlayerID), true),
		field("🏆 Equipo", t.Name, true),
		field("📝 Motivo", entry.Reason, false),
		field("📊 Estado Actual", "Agente Libre", true),
	}

	return &discordgo.MessageEmbed{
		Title:       "📉 BAJA CONFIRMADA",
		Description: "**" + t.Name + "** ha rescindido el contrato de un jugador",
		Color:       colorRed,
		Thumbnail:   thumbnail(t.LogoURL),
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "El jugador vuelve al mercado de fichajes"},
		Timestamp:   timestamp(entry.OccurredAt),
	}
}

func respondEmbed(result usecase.RespondResult, at time.Time) *discordgo.MessageEmbed {
	t := result.Team
	switch result.Outcome {
	case usecase.OutcomeAccepted:
		return &discordgo.MessageEmbed{
			Title:       "✅ ¡FICHAJE CONFIRMADO!",
			Description: userMention(result.Offer.PlayerID) + " es nuevo jugador de **" + t.Name + "**",
			Color:       colorGreen,
			Thumbnail:   thumbnail(t.LogoURL),
			Fields: []*discordgo.MessageEmbedField{
				field("📊 Plantilla", capacityText(result.RosterSize), true),
				field("🎭 Rol", roleMention(t.RoleID), true),
			},
			Footer:    &discordgo.MessageEmbedFooter{Text: "¡A demostrar tu talento!"},
			Timestamp: timestamp(at),
		}
	case usecase.OutcomeTeamFull:
		return &discordgo.MessageEmbed{
			Title:       "❌ EQUIPO COMPLETO",
			Description: "**" + t.Name + "** ya tiene " + strconv.Itoa(roster.Capacity) + " jugadores. La oferta quedó rechazada.",
			Color:       colorRed,
			Thumbnail:   thumbnail(t.LogoURL),
			Fields: []*discordgo.MessageEmbedField{
				field("⚽ Jugador", userMention(result.Offer.PlayerID)+" sigue como Agente Libre", false),
			},
			Timestamp: timestamp(at),
		}
	case usecase.OutcomeAlreadySigned:
		return &discordgo.MessageEmbed{
			Title:       "❌ OFERTA ANULADA",
			Description: userMention(result.Offer.PlayerID) + " ya no es Agente Libre. La oferta de **" + t.Name + "** quedó rechazada.",
			Color:       colorRed,
			Thumbnail:   thumbnail(t.LogoURL),
			Timestamp:   timestamp(at),
		}
	default:
		return &discordgo.MessageEmbed{
			Title:       "❌ FICHAJE RECHAZADO",
			Description: userMention(result.Offer.PlayerID) + " ha rechazado la oferta de **" + t.Name + "**",
			Color:       colorRed,
			Thumbnail:   thumbnail(t.LogoURL),
			Fields: []*discordgo.MessageEmbedField{
				field("📋 Estado", "Oferta rechazada", true),
				field("⚽ Jugador", "Sigue como Agente Libre", true),
			},
			Footer:    &discordgo.MessageEmbedFooter{Text: "El jugador busca otras opciones"},
			Timestamp: timestamp(at),
		}
	}
}

func teamRegisteredEmbed(t team.Team) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Equipo Registrado",
		Description: "**" + t.Name + "** ha sido añadido al sistema de fichajes",
		Color:       colorGreen,
		Thumbnail:   thumbnail(t.LogoURL),
		Fields: []*discordgo.MessageEmbedField{
			field("🎭 Rol Asignado", roleMention(t.RoleID), true),
			field("👥 Límite de Plantilla", strconv.Itoa(roster.Capacity)+" jugadores", true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "El equipo ya puede empezar a fichar jugadores"},
		Timestamp: timestamp(t.CreatedAt),
	}
}

// maxEmbedFields is Discord's per-embed field limit.
const maxEmbedFields = 25

func teamsEmbed(summaries []usecase.TeamSummary, at time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🏆 EQUIPOS DE LA LIGA",
		Description: "Todos los equipos participantes en la competición",
		Color:       colorPurple,
		Timestamp:   timestamp(at),
	}
	for i, s := range summaries {
		if i == maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, field(
			"⚽ "+s.Team.Name,
			"**Plantilla:** "+capacityText(s.RosterSize)+" jugadores\n**Rol:** "+roleMention(s.Team.RoleID),
			true,
		))
	}
	return embed
}

func myTeamEmbed(details usecase.TeamDetails, at time.Time) *discordgo.MessageEmbed {
	t := details.Team
	return &discordgo.MessageEmbed{
		Title:       "📋 " + t.Name,
		Description: "Información completa de tu equipo",
		Color:       colorGreen,
		Thumbnail:   thumbnail(t.LogoURL),
		Fields: []*discordgo.MessageEmbedField{
			field("👥 Plantilla", capacityText(details.Roster.Size)+" jugadores", true),
			field("🎭 Rol del Equipo", roleMention(t.RoleID), true),
			field("⚽ Jugadores Fichados", mentionList(details.Roster.Players, "⚽ ", "Sin jugadores fichados"), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Gestiona tu equipo con /fichar y /baja"},
		Timestamp: timestamp(at),
	}
}

func teamInfoEmbed(details usecase.TeamDetails, at time.Time) *discordgo.MessageEmbed {
	t := details.Team
	manager := "Sin DT asignado"
	if len(details.Roster.Managers) > 0 {
		manager = userMention(details.Roster.Managers[0].ID)
	}
	return &discordgo.MessageEmbed{
		Title:       "🏆 " + t.Name,
		Description: "Información detallada del equipo",
		Color:       colorBlue,
		Thumbnail:   thumbnail(t.LogoURL),
		Fields: []*discordgo.MessageEmbedField{
			field("👔 Director Técnico", manager, true),
			field("👥 Plantilla", capacityText(details.Roster.Size), true),
			field("🎭 Rol", roleMention(t.RoleID), true),
			field("⚽ Jugadores", mentionList(details.Roster.Players, "⚽ ", "Sin jugadores fichados"), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: t.Name + " - Liga Haxball"},
		Timestamp: timestamp(at),
	}
}

func welcomeEmbed(member roster.Actor, memberCount int, imageURL string, at time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎉 ¡Nuevo Jugador en el Servidor!",
		Description: "**" + member.Name + "**, ¡bienvenido a la liga de Haxball más competitiva!\n\n¿Listo para demostrar tu talento? Los equipos están buscando nuevas estrellas.",
		Color:       colorGreen,
		Thumbnail:   thumbnail(member.AvatarURL),
		Fields: []*discordgo.MessageEmbedField{
			field("⚽ Tu Estado", "Agente Libre - Disponible para fichajes", false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "¡Prepárate para la acción!"},
		Timestamp: timestamp(at),
	}
	if memberCount > 0 {
		embed.Fields = append(embed.Fields, field("🌟 Miembros Totales", strconv.Itoa(memberCount)+" jugadores", false))
	}
	if imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}
	return embed
}
