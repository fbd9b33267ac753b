package discordbot

import "github.com/bwmarrin/discordgo"

const (
	cmdConfig       = "config"
	cmdRegisterTeam = "añadir_equipo"
	cmdSign         = "fichar"
	cmdRelease      = "baja"
	cmdTeams        = "equipos"
	cmdMyTeam       = "mi_equipo"
	cmdTeamInfo     = "info_equipo"
)

// publicCommands answer in the channel; every other reply is ephemeral.
var publicCommands = map[string]bool{
	cmdTeams:    true,
	cmdMyTeam:   true,
	cmdTeamInfo: true,
}

var adminPermission int64 = discordgo.PermissionAdministrator

func floatPtr(v float64) *float64 { return &v }

func commandDefinitions() []*discordgo.ApplicationCommand {
	textChannels := []discordgo.ChannelType{discordgo.ChannelTypeGuildText}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:                     cmdConfig,
			Description:              "Configura los roles y canales del bot",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionRole, Name: "agente_libre", Description: "Rol de agente libre", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "jugador", Description: "Rol de jugador fichado", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "dt", Description: "Rol de Director Técnico", Required: true},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "canal_fichajes", Description: "Canal donde se publican las ofertas", Required: true, ChannelTypes: textChannels},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "canal_bienvenida", Description: "Canal de bienvenida", Required: true, ChannelTypes: textChannels},
				{Type: discordgo.ApplicationCommandOptionString, Name: "imagen_bienvenida", Description: "URL de la imagen de bienvenida"},
			},
		},
		{
			Name:                     cmdRegisterTeam,
			Description:              "Registra un equipo en la liga",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionRole, Name: "rol_equipo", Description: "Rol del equipo", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "nombre", Description: "Nombre del equipo", Required: true, MaxLength: 64},
				{Type: discordgo.ApplicationCommandOptionString, Name: "logo", Description: "URL del logo del equipo", Required: true},
			},
		},
		{
			Name:        cmdSign,
			Description: "Envía una oferta de fichaje a un agente libre",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "jugador", Description: "Jugador a fichar", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "posicion", Description: "Posición del jugador", Required: true, MaxLength: 32},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "dorsal", Description: "Número de camiseta", MinValue: floatPtr(0), MaxValue: 99},
			},
		},
		{
			Name:        cmdRelease,
			Description: "Da de baja a un jugador de tu equipo",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "jugador", Description: "Jugador a dar de baja", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "motivo", Description: "Motivo de la baja", MaxLength: 200},
			},
		},
		{
			Name:        cmdTeams,
			Description: "Lista los equipos de la liga",
		},
		{
			Name:        cmdMyTeam,
			Description: "Muestra la plantilla de tu equipo",
		},
		{
			Name:        cmdTeamInfo,
			Description: "Muestra la información de un equipo",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionRole, Name: "equipo", Description: "Rol del equipo", Required: true},
			},
		},
	}

	// Every command acts on the league guild, so none is offered in DMs.
	guildOnly := false
	for _, c := range commands {
		c.DMPermission = &guildOnly
	}
	return commands
}
