package settings

import (
	"fmt"
	"time"
)

// SingletonID is the only row the settings table ever holds.
const SingletonID = 1

// Settings holds the guild-specific role and channel ids the bot acts on.
type Settings struct {
	FreeAgentRoleID  string
	PlayerRoleID     string
	ManagerRoleID    string
	OfferChannelID   string
	WelcomeChannelID string
	WelcomeImageURL  string
	UpdatedAt        time.Time
}

// Configured reports whether the ids needed by the transfer workflow are set.
func (s Settings) Configured() bool {
	return s.FreeAgentRoleID != "" &&
		s.PlayerRoleID != "" &&
		s.ManagerRoleID != "" &&
		s.OfferChannelID != ""
}

func (s Settings) Validate() error {
	if s.FreeAgentRoleID == "" {
		return fmt.Errorf("free agent role id is required")
	}
	if s.PlayerRoleID == "" {
		return fmt.Errorf("player role id is required")
	}
	if s.ManagerRoleID == "" {
		return fmt.Errorf("manager role id is required")
	}
	if s.OfferChannelID == "" {
		return fmt.Errorf("offer channel id is required")
	}
	if s.WelcomeChannelID == "" {
		return fmt.Errorf("welcome channel id is required")
	}
	if s.FreeAgentRoleID == s.PlayerRoleID || s.FreeAgentRoleID == s.ManagerRoleID {
		return fmt.Errorf("free agent role must differ from player and manager roles")
	}

	return nil
}
