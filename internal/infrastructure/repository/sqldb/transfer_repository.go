package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	qb "github.com/riskibarqy/haxball-league/internal/platform/querybuilder"
)

type TransferRepository struct {
	db *sqlx.DB
}

func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, o transfer.Offer) (transfer.Offer, error) {
	query, args, err := qb.Insert("offers", offerTableModel{
		PlayerID:     o.PlayerID,
		PlayerName:   o.PlayerName,
		TeamRoleID:   o.TeamRoleID,
		TeamName:     o.TeamName,
		Position:     o.Position,
		JerseyNumber: o.JerseyNumber,
		ManagerID:    o.ManagerID,
		ManagerName:  o.ManagerName,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt.UTC(),
	}).
		Returning("id").
		ToSQL()
	if err != nil {
		return transfer.Offer{}, fmt.Errorf("build insert offer query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&o.ID); err != nil {
		if isUniqueViolation(err) {
			return transfer.Offer{}, fmt.Errorf("%w: player=%s team=%s", transfer.ErrDuplicatePending, o.PlayerID, o.TeamRoleID)
		}
		return transfer.Offer{}, fmt.Errorf("insert offer: %w", err)
	}

	return o, nil
}

func (r *TransferRepository) GetByID(ctx context.Context, id int64) (transfer.Offer, bool, error) {
	query, args, err := qb.Select(offerColumns...).From("offers").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return transfer.Offer{}, false, fmt.Errorf("build select offer query: %w", err)
	}

	var row offerTableModel
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return transfer.Offer{}, false, nil
		}
		return transfer.Offer{}, false, fmt.Errorf("select offer: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TransferRepository) LatestForPlayer(ctx context.Context, playerID, teamRoleID string) (transfer.Offer, bool, error) {
	query, args, err := qb.Select(offerColumns...).From("offers").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("team_role_id", teamRoleID),
		).
		OrderBy("id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return transfer.Offer{}, false, fmt.Errorf("build select latest offer query: %w", err)
	}

	var row offerTableModel
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return transfer.Offer{}, false, nil
		}
		return transfer.Offer{}, false, fmt.Errorf("select latest offer: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TransferRepository) List(ctx context.Context, filter transfer.Filter) ([]transfer.Offer, error) {
	builder := qb.Select(offerColumns...).From("offers").OrderBy("id DESC")
	if filter.TeamRoleID != "" {
		builder.Where(qb.Eq("team_role_id", filter.TeamRoleID))
	}
	if filter.Status != "" {
		builder.Where(qb.Eq("status", string(filter.Status)))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select offers query: %w", err)
	}

	var rows []offerTableModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select offers: %w", err)
	}

	out := make([]transfer.Offer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TransferRepository) Resolve(ctx context.Context, id int64, status transfer.Status, at time.Time) (bool, error) {
	if !transfer.StatusPending.CanTransitionTo(status) {
		return false, fmt.Errorf("invalid offer transition to %q", status)
	}

	query, args, err := qb.Update("offers").
		Set("status", string(status)).
		Set("resolved_at", at.UTC()).
		Where(
			qb.Eq("id", id),
			qb.Eq("status", string(transfer.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build resolve offer query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("resolve offer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected resolve offer: %w", err)
	}

	return affected > 0, nil
}

func (r *TransferRepository) Accept(ctx context.Context, id int64, at time.Time, signing history.Entry) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx accept offer: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("offers").
		Set("status", string(transfer.StatusAccepted)).
		Set("resolved_at", at.UTC()).
		Where(
			qb.Eq("id", id),
			qb.Eq("status", string(transfer.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build accept offer query: %w", err)
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("accept offer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected accept offer: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	query, args, err = qb.Update("offers").
		Set("status", string(transfer.StatusRejected)).
		Set("resolved_at", at.UTC()).
		Where(
			qb.Expr("player_id = (SELECT o.player_id FROM offers AS o WHERE o.id = ?)", id),
			qb.Eq("status", string(transfer.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build reject competing offers query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("reject competing offers: %w", err)
	}

	if _, err := appendHistory(ctx, tx, signing); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit accept offer: %w", err)
	}

	return true, nil
}

func (r *TransferRepository) Release(ctx context.Context, playerID string, entry history.Entry) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx release player: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := appendHistory(ctx, tx, entry); err != nil {
		return 0, err
	}

	query, args, err := qb.DeleteFrom("offers").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete player offers query: %w", err)
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete player offers: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected delete player offers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit release player: %w", err)
	}

	return removed, nil
}
