package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	qb "github.com/riskibarqy/haxball-league/internal/platform/querybuilder"
)

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns zero Settings when the singleton row is missing.
func (r *SettingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	query, args, err := qb.Select(qb.Columns(settingsTableModel{})...).From("settings").
		Where(qb.Eq("id", settings.SingletonID)).
		ToSQL()
	if err != nil {
		return settings.Settings{}, fmt.Errorf("build select settings query: %w", err)
	}

	var row settingsTableModel
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return settings.Settings{}, nil
		}
		return settings.Settings{}, fmt.Errorf("select settings: %w", err)
	}

	return row.toDomain(), nil
}

func (r *SettingsRepository) Save(ctx context.Context, s settings.Settings) error {
	model := settingsTableModel{
		ID:               settings.SingletonID,
		FreeAgentRoleID:  s.FreeAgentRoleID,
		PlayerRoleID:     s.PlayerRoleID,
		ManagerRoleID:    s.ManagerRoleID,
		OfferChannelID:   s.OfferChannelID,
		WelcomeChannelID: s.WelcomeChannelID,
		WelcomeImageURL:  s.WelcomeImageURL,
	}
	if !s.UpdatedAt.IsZero() {
		model.UpdatedAt.Time = s.UpdatedAt.UTC()
		model.UpdatedAt.Valid = true
	}

	query, args, err := qb.Insert("settings", model).
		OnConflictUpdate("id").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert settings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return nil
}
