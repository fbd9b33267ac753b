package history

import (
	"fmt"
	"time"
)

// MaxRecent bounds every ledger listing.
const MaxRecent = 50

// DefaultReleaseReason is recorded when a manager releases a player without
// giving a reason.
const DefaultReleaseReason = "Decisión técnica"

type Kind string

const (
	KindSigning Kind = "signing"
	KindRelease Kind = "release"
)

func (k Kind) Valid() bool {
	return k == KindSigning || k == KindRelease
}

// Entry is one immutable roster-change event.
type Entry struct {
	ID           int64
	Kind         Kind
	PlayerID     string
	PlayerName   string
	TeamName     string
	TeamLogoURL  string
	Position     string
	JerseyNumber int
	Reason       string
	OccurredAt   time.Time
}

func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("invalid history kind %q", e.Kind)
	}
	if e.PlayerID == "" {
		return fmt.Errorf("history player id is required")
	}
	if e.TeamName == "" {
		return fmt.Errorf("history team name is required")
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("history timestamp is required")
	}

	return nil
}

// ClampLimit maps a requested listing size onto (0, MaxRecent].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxRecent {
		return MaxRecent
	}
	return limit
}
