package transfer

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicatePending is returned by repositories when the (player, team)
// pair already has a pending offer.
var ErrDuplicatePending = errors.New("pending offer already exists")

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransitionTo allows only pending -> accepted and pending -> rejected.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.Terminal()
}

// Offer is a signing proposal from a team manager to a free agent.
type Offer struct {
	ID           int64
	PlayerID     string
	PlayerName   string
	TeamRoleID   string
	TeamName     string
	Position     string
	JerseyNumber int
	ManagerID    string
	ManagerName  string
	Status       Status
	CreatedAt    time.Time
	ResolvedAt   *time.Time
}

func (o Offer) Validate() error {
	if o.PlayerID == "" {
		return fmt.Errorf("offer player id is required")
	}
	if o.TeamRoleID == "" {
		return fmt.Errorf("offer team role id is required")
	}
	if o.ManagerID == "" {
		return fmt.Errorf("offer manager id is required")
	}
	if o.Position == "" {
		return fmt.Errorf("offer position is required")
	}
	if o.JerseyNumber < 0 || o.JerseyNumber > 99 {
		return fmt.Errorf("jersey number must be between 0 and 99")
	}
	if !o.Status.Valid() {
		return fmt.Errorf("invalid offer status %q", o.Status)
	}

	return nil
}

// Filter narrows offer listings; zero values match everything.
type Filter struct {
	TeamRoleID string
	Status     Status
}
