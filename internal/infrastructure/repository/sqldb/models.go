package sqldb

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	qb "github.com/riskibarqy/haxball-league/internal/platform/querybuilder"
)

type settingsTableModel struct {
	ID               int          `db:"id"`
	FreeAgentRoleID  string       `db:"free_agent_role_id"`
	PlayerRoleID     string       `db:"player_role_id"`
	ManagerRoleID    string       `db:"manager_role_id"`
	OfferChannelID   string       `db:"offer_channel_id"`
	WelcomeChannelID string       `db:"welcome_channel_id"`
	WelcomeImageURL  string       `db:"welcome_image_url"`
	UpdatedAt        sql.NullTime `db:"updated_at"`
}

func (m settingsTableModel) toDomain() settings.Settings {
	out := settings.Settings{
		FreeAgentRoleID:  m.FreeAgentRoleID,
		PlayerRoleID:     m.PlayerRoleID,
		ManagerRoleID:    m.ManagerRoleID,
		OfferChannelID:   m.OfferChannelID,
		WelcomeChannelID: m.WelcomeChannelID,
		WelcomeImageURL:  m.WelcomeImageURL,
	}
	if m.UpdatedAt.Valid {
		out.UpdatedAt = m.UpdatedAt.Time.UTC()
	}
	return out
}

type teamTableModel struct {
	ID        int64     `db:"id,readonly"`
	RoleID    string    `db:"role_id"`
	Name      string    `db:"name"`
	LogoURL   string    `db:"logo_url"`
	CreatedAt time.Time `db:"created_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		RoleID:    m.RoleID,
		Name:      m.Name,
		LogoURL:   m.LogoURL,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type offerTableModel struct {
	ID           int64        `db:"id,readonly"`
	PlayerID     string       `db:"player_id"`
	PlayerName   string       `db:"player_name"`
	TeamRoleID   string       `db:"team_role_id"`
	TeamName     string       `db:"team_name"`
	Position     string       `db:"position"`
	JerseyNumber int          `db:"jersey_number"`
	ManagerID    string       `db:"manager_id"`
	ManagerName  string       `db:"manager_name"`
	Status       string       `db:"status"`
	CreatedAt    time.Time    `db:"created_at"`
	ResolvedAt   sql.NullTime `db:"resolved_at"`
}

func (m offerTableModel) toDomain() transfer.Offer {
	out := transfer.Offer{
		ID:           m.ID,
		PlayerID:     m.PlayerID,
		PlayerName:   m.PlayerName,
		TeamRoleID:   m.TeamRoleID,
		TeamName:     m.TeamName,
		Position:     m.Position,
		JerseyNumber: m.JerseyNumber,
		ManagerID:    m.ManagerID,
		ManagerName:  m.ManagerName,
		Status:       transfer.Status(m.Status),
		CreatedAt:    m.CreatedAt.UTC(),
	}
	if m.ResolvedAt.Valid {
		at := m.ResolvedAt.Time.UTC()
		out.ResolvedAt = &at
	}
	return out
}

type historyTableModel struct {
	ID           int64     `db:"id,readonly"`
	Kind         string    `db:"kind"`
	PlayerID     string    `db:"player_id"`
	PlayerName   string    `db:"player_name"`
	TeamName     string    `db:"team_name"`
	TeamLogoURL  string    `db:"team_logo_url"`
	Position     string    `db:"position"`
	JerseyNumber int       `db:"jersey_number"`
	Reason       string    `db:"reason"`
	OccurredAt   time.Time `db:"occurred_at"`
}

func newHistoryRow(e history.Entry) historyTableModel {
	return historyTableModel{
		Kind:         string(e.Kind),
		PlayerID:     e.PlayerID,
		PlayerName:   e.PlayerName,
		TeamName:     e.TeamName,
		TeamLogoURL:  e.TeamLogoURL,
		Position:     e.Position,
		JerseyNumber: e.JerseyNumber,
		Reason:       e.Reason,
		OccurredAt:   e.OccurredAt.UTC(),
	}
}

func (m historyTableModel) toDomain() history.Entry {
	return history.Entry{
		ID:           m.ID,
		Kind:         history.Kind(m.Kind),
		PlayerID:     m.PlayerID,
		PlayerName:   m.PlayerName,
		TeamName:     m.TeamName,
		TeamLogoURL:  m.TeamLogoURL,
		Position:     m.Position,
		JerseyNumber: m.JerseyNumber,
		Reason:       m.Reason,
		OccurredAt:   m.OccurredAt.UTC(),
	}
}

var (
	teamColumns    = qb.Columns(teamTableModel{})
	offerColumns   = qb.Columns(offerTableModel{})
	historyColumns = qb.Columns(historyTableModel{})
)
