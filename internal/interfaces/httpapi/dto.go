package httpapi

import (
	"time"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
)

// Field names follow the league dashboard that consumes this API.

var statusLabels = map[transfer.Status]string{
	transfer.StatusPending:  "pendiente",
	transfer.StatusAccepted: "aceptado",
	transfer.StatusRejected: "rechazado",
}

var kindLabels = map[history.Kind]string{
	history.KindSigning: "fichaje",
	history.KindRelease: "baja",
}

type teamDTO struct {
	ID        int64  `json:"id"`
	RoleID    string `json:"roleId"`
	Name      string `json:"nombre"`
	LogoURL   string `json:"logo"`
	CreatedAt string `json:"creadoEn,omitempty"`
}

type offerDTO struct {
	ID           int64  `json:"id"`
	PlayerID     string `json:"jugadorId"`
	PlayerName   string `json:"jugadorNombre"`
	TeamRoleID   string `json:"teamRoleId"`
	TeamName     string `json:"teamNombre"`
	Position     string `json:"posicion"`
	JerseyNumber int    `json:"dorsal"`
	ManagerID    string `json:"dtId"`
	ManagerName  string `json:"dtNombre"`
	Date         string `json:"fecha"`
	Status       string `json:"estado"`
	ResolvedAt   string `json:"fechaResolucion,omitempty"`
}

type historyEntryDTO struct {
	ID           int64  `json:"id"`
	Kind         string `json:"tipo"`
	PlayerID     string `json:"jugadorId"`
	PlayerName   string `json:"jugadorNombre"`
	TeamName     string `json:"teamNombre"`
	TeamLogoURL  string `json:"teamLogo"`
	Position     string `json:"posicion"`
	JerseyNumber int    `json:"dorsal"`
	Reason       string `json:"motivo,omitempty"`
	Date         string `json:"fecha"`
	Timestamp    int64  `json:"timestamp"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:        t.ID,
		RoleID:    t.RoleID,
		Name:      t.Name,
		LogoURL:   t.LogoURL,
		CreatedAt: formatTime(t.CreatedAt),
	}
}

func offerToDTO(o transfer.Offer) offerDTO {
	dto := offerDTO{
		ID:           o.ID,
		PlayerID:     o.PlayerID,
		PlayerName:   o.PlayerName,
		TeamRoleID:   o.TeamRoleID,
		TeamName:     o.TeamName,
		Position:     o.Position,
		JerseyNumber: o.JerseyNumber,
		ManagerID:    o.ManagerID,
		ManagerName:  o.ManagerName,
		Date:         formatTime(o.CreatedAt),
		Status:       statusLabels[o.Status],
	}
	if o.ResolvedAt != nil {
		dto.ResolvedAt = formatTime(*o.ResolvedAt)
	}
	return dto
}

func historyEntryToDTO(e history.Entry) historyEntryDTO {
	return historyEntryDTO{
		ID:           e.ID,
		Kind:         kindLabels[e.Kind],
		PlayerID:     e.PlayerID,
		PlayerName:   e.PlayerName,
		TeamName:     e.TeamName,
		TeamLogoURL:  e.TeamLogoURL,
		Position:     e.Position,
		JerseyNumber: e.JerseyNumber,
		Reason:       e.Reason,
		Date:         formatTime(e.OccurredAt),
		Timestamp:    e.OccurredAt.UnixMilli(),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
