package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	qb "github.com/riskibarqy/haxball-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) (team.Team, error) {
	query, args, err := qb.Insert("teams", teamTableModel{
		RoleID:    t.RoleID,
		Name:      t.Name,
		LogoURL:   t.LogoURL,
		CreatedAt: t.CreatedAt.UTC(),
	}).
		Returning("id").
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&t.ID); err != nil {
		if isUniqueViolation(err) {
			return team.Team{}, fmt.Errorf("%w: %s", team.ErrDuplicateRole, t.RoleID)
		}
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}

	return t, nil
}

func (r *TeamRepository) GetByRoleID(ctx context.Context, roleID string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").
		Where(qb.Eq("role_id", roleID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by role query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by role: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
