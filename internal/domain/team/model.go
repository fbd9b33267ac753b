package team

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateRole is returned by repositories when the role id is already
// bound to another team.
var ErrDuplicateRole = errors.New("team role already registered")

// Team is a league club identified by the guild role its members hold.
type Team struct {
	ID        int64
	RoleID    string
	Name      string
	LogoURL   string
	CreatedAt time.Time
}

func (t Team) Validate() error {
	if t.RoleID == "" {
		return fmt.Errorf("team role id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.LogoURL == "" {
		return fmt.Errorf("team logo is required")
	}

	return nil
}
