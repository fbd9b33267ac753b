package discordbot

import (
	"errors"

	"github.com/riskibarqy/haxball-league/internal/usecase"
)

// errorMessage renders a use case failure as the ephemeral reply shown to
// the member who triggered it. Internal details never reach the guild.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrConfigurationMissing):
		return "❌ El bot no está configurado. Usa /config primero"
	case errors.Is(err, usecase.ErrNotManager):
		return "❌ No tienes permisos de Director Técnico"
	case errors.Is(err, usecase.ErrNoTeamAssigned):
		return "❌ No tienes un equipo asignado. Contacta a un administrador."
	case errors.Is(err, usecase.ErrManagerTeamAmbiguous):
		return "❌ Tienes más de un rol de equipo. Contacta a un administrador."
	case errors.Is(err, usecase.ErrNotFreeAgent):
		return "❌ El jugador seleccionado no es agente libre"
	case errors.Is(err, usecase.ErrNotOfferRecipient):
		return "❌ Solo el jugador puede responder a esta oferta"
	case errors.Is(err, usecase.ErrPlayerNotOnTeam):
		return "❌ Este jugador no pertenece a tu equipo"
	case errors.Is(err, errNotAdmin):
		return "❌ Solo un administrador puede usar este comando"
	case errors.Is(err, usecase.ErrAuthorizationDenied):
		return "❌ No tienes permiso para hacer esto"
	case errors.Is(err, usecase.ErrCapacityExceeded):
		return "❌ Tu equipo ya tiene 15 jugadores (límite máximo)"
	case errors.Is(err, usecase.ErrDuplicateRegistration):
		return "❌ Este rol ya está asignado a un equipo"
	case errors.Is(err, usecase.ErrDuplicateOffer):
		return "❌ Ya existe una oferta pendiente para este jugador"
	case errors.Is(err, usecase.ErrOfferResolved):
		return "❌ Esta oferta ya fue respondida"
	case errors.Is(err, usecase.ErrNotFound):
		return "❌ No se encontró el equipo, jugador u oferta indicada"
	case errors.Is(err, usecase.ErrInvalidInput):
		return "❌ Datos inválidos: revisa los valores del comando"
	case errors.Is(err, usecase.ErrAnnouncementFailed):
		return "❌ No se pudo publicar la oferta en el canal de fichajes"
	case errors.Is(err, usecase.ErrMembershipSync):
		return "⚠️ El cambio se guardó, pero no se pudieron actualizar los roles. Avisa a un administrador."
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return "❌ Discord no responde ahora mismo, inténtalo más tarde"
	default:
		return "❌ Ocurrió un error inesperado"
	}
}
