package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/haxball-league/internal/domain/history"
	qb "github.com/riskibarqy/haxball-league/internal/platform/querybuilder"
)

type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, e history.Entry) (history.Entry, error) {
	id, err := appendHistory(ctx, r.db, e)
	if err != nil {
		return history.Entry{}, err
	}
	e.ID = id
	return e, nil
}

func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]history.Entry, error) {
	query, args, err := qb.Select(historyColumns...).From("history").
		OrderBy("occurred_at DESC", "id DESC").
		Limit(history.ClampLimit(limit)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select history query: %w", err)
	}

	var rows []historyTableModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	out := make([]history.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// queryRower is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryRower interface {
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	Rebind(query string) string
}

func appendHistory(ctx context.Context, q queryRower, e history.Entry) (int64, error) {
	query, args, err := qb.Insert("history", newHistoryRow(e)).
		Returning("id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert history query: %w", err)
	}

	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}

	return id, nil
}
