package transfer

import (
	"context"
	"time"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
)

// Repository owns offer rows. Every status change is conditional on the row
// still being pending; a false result means another caller resolved it first.
// Roster capacity is not checked here: rosters live in the guild, not in this
// table.
type Repository interface {
	Create(ctx context.Context, o Offer) (Offer, error)
	GetByID(ctx context.Context, id int64) (Offer, bool, error)
	LatestForPlayer(ctx context.Context, playerID, teamRoleID string) (Offer, bool, error)
	List(ctx context.Context, filter Filter) ([]Offer, error)

	// Resolve moves a pending offer to a terminal status.
	Resolve(ctx context.Context, id int64, status Status, at time.Time) (bool, error)
	// Accept moves a pending offer to accepted, rejects the player's other
	// pending offers and appends signing, all in one transaction.
	Accept(ctx context.Context, id int64, at time.Time, signing history.Entry) (bool, error)
	// Release purges every offer row of the player and appends entry in the
	// same transaction. It returns the number of rows removed.
	Release(ctx context.Context, playerID string, entry history.Entry) (int64, error)
}
